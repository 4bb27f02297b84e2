package game

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gonewx/vnstage/pkg/components"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ResourceManager is responsible for centralized management of game resources.
// It provides loading and caching mechanisms for images, music and fonts,
// ensuring that resources are loaded only once and reused throughout the game.
//
// Sprite components only carry resource keys (file paths); the renderer resolves
// them here. Keys starting with '@' are built-in images generated on demand.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. All loading happens on the game loop goroutine.
type ResourceManager struct {
	imageCache    map[string]*ebiten.Image    // Cache for loaded images: path -> Image
	audioCache    map[string]*audio.Player    // Cache for loaded music players: path -> Player
	fontFaceCache map[string]*text.GoTextFace // Cache for Ebitengine v2 text faces
	audioContext  *audio.Context              // Global audio context for audio decoding

	// failed 记录加载失败的图像，避免每帧重复尝试和刷屏日志
	failed map[string]error
}

// NewResourceManager creates and initializes a new ResourceManager instance.
// The audioContext parameter is required for music playback; it may be nil when
// only images are needed.
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		imageCache:    make(map[string]*ebiten.Image),
		audioCache:    make(map[string]*audio.Player),
		fontFaceCache: make(map[string]*text.GoTextFace),
		audioContext:  audioContext,
		failed:        make(map[string]error),
	}
}

// LoadImage loads an image file from the specified path and caches it for future use.
// If the image has already been loaded, it returns the cached version.
// Supported formats: PNG, JPEG. Built-in keys (components.BlackImage) are generated.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	if cachedImage, exists := rm.imageCache[path]; exists {
		return cachedImage, nil
	}
	if err, failed := rm.failed[path]; failed {
		return nil, err
	}

	if strings.HasPrefix(path, "@") {
		img, err := builtinImage(path)
		if err != nil {
			rm.failed[path] = err
			return nil, err
		}
		rm.imageCache[path] = img
		return img, nil
	}

	file, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("failed to open image file %s: %w", path, err)
		rm.failed[path] = err
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		err = fmt.Errorf("failed to decode image %s: %w", path, err)
		rm.failed[path] = err
		return nil, err
	}

	ebitenImg := ebiten.NewImageFromImage(img)
	rm.imageCache[path] = ebitenImg
	return ebitenImg, nil
}

// GetImage retrieves a previously loaded image from the cache, or nil.
func (rm *ResourceManager) GetImage(path string) *ebiten.Image {
	return rm.imageCache[path]
}

// builtinImageSize 内置纯色图像的边长，绘制时按目标尺寸拉伸
const builtinImageSize = 16

func builtinImage(key string) (*ebiten.Image, error) {
	switch key {
	case components.BlackImage:
		img := ebiten.NewImage(builtinImageSize, builtinImageSize)
		img.Fill(color.Black)
		return img, nil
	default:
		return nil, fmt.Errorf("unknown built-in image %s", key)
	}
}

// LoadMusic loads a music file and caches a looping player for it.
// Supported formats: MP3 (.mp3), OGG Vorbis (.ogg) and WAV (.wav).
//
// The player is returned as a Track so the MusicPlayer does not depend on ebiten audio.
func (rm *ResourceManager) LoadMusic(path string) (Track, error) {
	if cachedPlayer, exists := rm.audioCache[path]; exists {
		return cachedPlayer, nil
	}

	// Read the entire file into memory so the stream can seek without keeping the file open
	audioData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}

	stream, err := decodeAudio(path, bytes.NewReader(audioData))
	if err != nil {
		return nil, err
	}

	if rm.audioContext == nil {
		return nil, fmt.Errorf("no audio context available to play %s", path)
	}

	// Wrap the stream in an infinite loop for background music
	loopStream := audio.NewInfiniteLoop(stream, stream.Length())
	player, err := rm.audioContext.NewPlayer(loopStream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}

type lengthReadSeeker interface {
	io.ReadSeeker
	Length() int64
}

// decodeAudio 按扩展名选择解码器
func decodeAudio(path string, reader io.ReadSeeker) (lengthReadSeeker, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		return s, nil
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		return s, nil
	case ".wav":
		s, err := wav.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}
}

// LoadFont loads a TrueType/OpenType font from the specified path and creates a text face with the given size.
// The font face is cached for future use with a cache key combining path and size.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	fontData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace
	return goTextFace, nil
}

// GetFont retrieves a previously loaded font face from the cache, or nil.
func (rm *ResourceManager) GetFont(path string, size float64) *text.GoTextFace {
	return rm.fontFaceCache[fmt.Sprintf("%s:%.1f", path, size)]
}
