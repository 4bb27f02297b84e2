package stage

import "fmt"

// SpriteCatalog 角色表情图像目录
// 以 {speaker}/{emote} 寻址，返回图像资源键
type SpriteCatalog interface {
	Lookup(speaker, emote string) (string, error)
}

// MapCatalog 基于内存映射的表情目录：speaker -> emote -> 图像资源键
type MapCatalog map[string]map[string]string

// Lookup 实现 SpriteCatalog
func (c MapCatalog) Lookup(speaker, emote string) (string, error) {
	emotes, ok := c[speaker]
	if !ok {
		return "", fmt.Errorf("%s/%s: %w", speaker, emote, ErrUnknownActor)
	}
	image, ok := emotes[emote]
	if !ok || image == "" {
		return "", fmt.Errorf("%s/%s: %w", speaker, emote, ErrUnknownEmote)
	}
	return image, nil
}
