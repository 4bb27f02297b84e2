package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gonewx/vnstage/pkg/components"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// SceneConfig 场景清单
// 一个场景由一份脚本、一组 CG、一组角色表情和一个播放列表组成
type SceneConfig struct {
	ID     string `yaml:"id"`     // 场景ID，如 "chapter1"，nextScene 命令使用
	Name   string `yaml:"name"`   // 场景名称（可选）
	Script string `yaml:"script"` // Lua 脚本路径（相对于清单文件）

	// 开场行为
	AutoStart        bool    `yaml:"autoStart"`        // 是否自动开始脚本，默认 true
	PlayMusicOnStart bool    `yaml:"playMusicOnStart"` // 开场时播放第一首音乐；为 false 时只设置不播放
	StartDelay       float64 `yaml:"startDelay"`       // 开场前的等待时间（秒），默认 1.0
	CoverOnStart     bool    `yaml:"coverOnStart"`     // 开场前用黑幕遮住舞台，默认 true

	// 调制色："#RRGGBB" 或 "#RRGGBBAA"，默认白色（不调制）
	ActorModulation      string `yaml:"actorModulation"`
	BackgroundModulation string `yaml:"backgroundModulation"`

	Backgrounds []BackgroundConfig     `yaml:"backgrounds"` // CG 列表
	Actors      map[string]ActorConfig `yaml:"actors"`      // 角色名 -> 角色配置
	Playlist    []string               `yaml:"playlist"`    // 音乐文件路径（按顺序）
	Effects     []EffectConfig         `yaml:"effects"`     // vfxActivate/vfxDeactivate 可用的覆盖效果

	// dir 清单文件所在目录，相对路径以此为基准
	dir string
}

// BackgroundConfig 单个 CG 配置
type BackgroundConfig struct {
	Name        string             `yaml:"name"`        // CG 名称（不区分大小写）
	Image       string             `yaml:"image"`       // 图像路径
	Color       string             `yaml:"color"`       // 着色，默认白色
	Decorations []DecorationConfig `yaml:"decorations"` // 附属装饰（可选）
}

// DecorationConfig CG 附属装饰
type DecorationConfig struct {
	Image  string  `yaml:"image"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`  // 0 表示铺满舞台
	Height float64 `yaml:"height"` // 0 表示铺满舞台
}

// EffectConfig 覆盖效果：激活时在舞台最上层淡入一张图像
type EffectConfig struct {
	Name     string  `yaml:"name"`
	Image    string  `yaml:"image"`
	Alpha    float64 `yaml:"alpha"`    // 激活后的不透明度，默认 1
	FadeTime float64 `yaml:"fadeTime"` // 淡入淡出时间（秒），默认 0.5
}

// ActorConfig 角色配置
type ActorConfig struct {
	NameColor string            `yaml:"nameColor"` // 名牌颜色，默认白色
	Emotes    map[string]string `yaml:"emotes"`    // 表情 -> 图像路径
}

// LoadSceneConfig 从YAML文件加载场景清单
// 参数：
//
//	path - 清单文件路径
//
// 返回：
//
//	*SceneConfig - 解析后的场景清单
//	error - 如果文件读取、解析或校验失败，返回错误信息
func LoadSceneConfig(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config file %s: %w", path, err)
	}

	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid scene config in %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseSceneConfig 解析YAML格式的场景清单
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	// 布尔字段的默认值为 true，先填好再解析
	cfg := SceneConfig{
		AutoStart:        true,
		PlayMusicOnStart: true,
		CoverOnStart:     true,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config YAML: %w", err)
	}

	applySceneDefaults(&cfg)

	if err := validateSceneConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applySceneDefaults 为缺失的可选字段设置默认值
func applySceneDefaults(cfg *SceneConfig) {
	if cfg.StartDelay == 0 {
		cfg.StartDelay = 1.0
	}
	if cfg.ActorModulation == "" {
		cfg.ActorModulation = "#ffffff"
	}
	if cfg.BackgroundModulation == "" {
		cfg.BackgroundModulation = "#ffffff"
	}
	for i := range cfg.Backgrounds {
		if cfg.Backgrounds[i].Color == "" {
			cfg.Backgrounds[i].Color = "#ffffff"
		}
	}
	for i := range cfg.Effects {
		if cfg.Effects[i].Alpha == 0 {
			cfg.Effects[i].Alpha = 1
		}
		if cfg.Effects[i].FadeTime == 0 {
			cfg.Effects[i].FadeTime = 0.5
		}
	}
	for name, actor := range cfg.Actors {
		if actor.NameColor == "" {
			actor.NameColor = "#ffffff"
			cfg.Actors[name] = actor
		}
	}
}

// validateSceneConfig 验证场景清单的完整性和合法性
func validateSceneConfig(cfg *SceneConfig) error {
	if cfg.ID == "" {
		return fmt.Errorf("scene ID is required")
	}
	if cfg.Script == "" {
		return fmt.Errorf("script path is required")
	}
	if cfg.StartDelay < 0 {
		return fmt.Errorf("startDelay cannot be negative, got %v", cfg.StartDelay)
	}

	if _, err := components.ParseHexTint(cfg.ActorModulation); err != nil {
		return fmt.Errorf("actorModulation: %w", err)
	}
	if _, err := components.ParseHexTint(cfg.BackgroundModulation); err != nil {
		return fmt.Errorf("backgroundModulation: %w", err)
	}

	seen := make(map[string]bool)
	for i, bg := range cfg.Backgrounds {
		key := strings.ToLower(strings.TrimSpace(bg.Name))
		if key == "" {
			return fmt.Errorf("backgrounds[%d]: name is required", i)
		}
		if key == "black_screen" || key == "blackscreen" {
			return fmt.Errorf("backgrounds[%d]: %q is reserved", i, bg.Name)
		}
		if seen[key] {
			return fmt.Errorf("backgrounds[%d]: duplicate name %q", i, bg.Name)
		}
		seen[key] = true

		if bg.Image == "" {
			return fmt.Errorf("backgrounds[%d] (%s): image is required", i, bg.Name)
		}
		if _, err := components.ParseHexTint(bg.Color); err != nil {
			return fmt.Errorf("backgrounds[%d] (%s): %w", i, bg.Name, err)
		}
		for j, d := range bg.Decorations {
			if d.Image == "" {
				return fmt.Errorf("backgrounds[%d] (%s), decoration %d: image is required", i, bg.Name, j)
			}
			if d.Width < 0 || d.Height < 0 {
				return fmt.Errorf("backgrounds[%d] (%s), decoration %d: size cannot be negative", i, bg.Name, j)
			}
		}
	}

	for name, actor := range cfg.Actors {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("actor name cannot be empty")
		}
		if strings.ContainsAny(name, ",:") {
			return fmt.Errorf("actor %q: name cannot contain ',' or ':'", name)
		}
		if _, err := components.ParseHexTint(actor.NameColor); err != nil {
			return fmt.Errorf("actor %q: nameColor: %w", name, err)
		}
		for emote, image := range actor.Emotes {
			if image == "" {
				return fmt.Errorf("actor %q, emote %q: image is required", name, emote)
			}
		}
	}

	for i, track := range cfg.Playlist {
		if track == "" {
			return fmt.Errorf("playlist[%d]: path is required", i)
		}
	}

	effects := make(map[string]bool)
	for i, fx := range cfg.Effects {
		if fx.Name == "" {
			return fmt.Errorf("effects[%d]: name is required", i)
		}
		if effects[fx.Name] {
			return fmt.Errorf("effects[%d]: duplicate name %q", i, fx.Name)
		}
		effects[fx.Name] = true
		if fx.Image == "" {
			return fmt.Errorf("effects[%d] (%s): image is required", i, fx.Name)
		}
		if fx.Alpha < 0 || fx.Alpha > 1 {
			return fmt.Errorf("effects[%d] (%s): alpha must be within [0, 1], got %v", i, fx.Name, fx.Alpha)
		}
		if fx.FadeTime < 0 {
			return fmt.Errorf("effects[%d] (%s): fadeTime cannot be negative", i, fx.Name)
		}
	}
	return nil
}

// Dir 清单文件所在目录
func (c *SceneConfig) Dir() string {
	return c.dir
}

// Resolve 把清单中的相对路径转为相对于清单目录的路径
func (c *SceneConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "@") || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// ActorTint 解析角色调制色
func (c *SceneConfig) ActorTint() components.Tint {
	t, _ := components.ParseHexTint(c.ActorModulation)
	return t
}

// BackgroundTint 解析 CG 调制色
func (c *SceneConfig) BackgroundTint() components.Tint {
	t, _ := components.ParseHexTint(c.BackgroundModulation)
	return t
}

// NameColors 角色名牌颜色
func (c *SceneConfig) NameColors() map[string]components.Tint {
	colors := make(map[string]components.Tint, len(c.Actors))
	for name, actor := range c.Actors {
		t, _ := components.ParseHexTint(actor.NameColor)
		colors[name] = t
	}
	return colors
}

// EmoteCatalog 角色表情目录：角色名 -> 折叠后的表情键 -> 图像路径（已解析为相对清单目录）
func (c *SceneConfig) EmoteCatalog() map[string]map[string]string {
	fold := cases.Fold()
	catalog := make(map[string]map[string]string, len(c.Actors))
	for name, actor := range c.Actors {
		emotes := make(map[string]string, len(actor.Emotes))
		for emote, image := range actor.Emotes {
			emotes[fold.String(strings.TrimSpace(emote))] = c.Resolve(image)
		}
		catalog[strings.TrimSpace(name)] = emotes
	}
	return catalog
}
