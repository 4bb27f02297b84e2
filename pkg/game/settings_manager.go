package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PlayerSettings 全局玩家设置
// 与存档无关，所有场景共享
type PlayerSettings struct {
	// 音频设置
	MusicVolume  float64 `yaml:"musicVolume"`  // 音乐音量 0.0 ~ 1.0
	MusicEnabled bool    `yaml:"musicEnabled"` // 音乐开关

	// 文字设置
	TextSpeed float64 `yaml:"textSpeed"` // 逐字显示速度（字符/秒），0 表示立即显示整句
	AutoDelay float64 `yaml:"autoDelay"` // 自动模式下整句显示完后的等待时间（秒）

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// 文字速度范围
const (
	MinTextSpeed = 0.0
	MaxTextSpeed = 200.0
	MaxAutoDelay = 10.0
)

// DefaultSettings 返回默认设置
func DefaultSettings() *PlayerSettings {
	return &PlayerSettings{
		MusicVolume:  0.7,
		MusicEnabled: true,
		TextSpeed:    40,
		AutoDelay:    1.5,
		Fullscreen:   false,
	}
}

// SettingsManager 设置管理器
// 负责游戏设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PlayerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建设置管理器并加载已保存的设置
// gdataManager 为 nil 时只在内存中保存设置；加载失败时使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或尚未保存过，使用默认设置。
// 读取或解析失败时同样回退到默认设置并返回错误。
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	loaded, err := decodeSettings(data)
	if err != nil {
		return err
	}
	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// decodeSettings 解析 YAML 设置，缺失的字段保持默认值，越界值被修正
func decodeSettings(data []byte) (*PlayerSettings, error) {
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	settings.sanitize()
	return settings, nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	// 序列化设置为 YAML
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// 保存到 gdata
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
// 返回的指针在 Load 后会被替换，不要长期持有
func (sm *SettingsManager) GetSettings() *PlayerSettings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量，限制在 0.0 ~ 1.0
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetMusicEnabled 设置音乐开关
func (sm *SettingsManager) SetMusicEnabled(enabled bool) {
	sm.settings.MusicEnabled = enabled
}

// SetFullscreen 设置启动时是否全屏
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetTextSpeed 设置逐字显示速度（字符/秒）
// 速度会被限制在 MinTextSpeed ~ MaxTextSpeed 范围内
func (sm *SettingsManager) SetTextSpeed(charsPerSecond float64) {
	sm.settings.TextSpeed = clamp(charsPerSecond, MinTextSpeed, MaxTextSpeed)
}

// SetAutoDelay 设置自动模式的等待时间（秒）
func (sm *SettingsManager) SetAutoDelay(seconds float64) {
	sm.settings.AutoDelay = clamp(seconds, 0, MaxAutoDelay)
}

// sanitize 修正从磁盘读到的越界值
func (s *PlayerSettings) sanitize() {
	s.MusicVolume = clampVolume(s.MusicVolume)
	s.TextSpeed = clamp(s.TextSpeed, MinTextSpeed, MaxTextSpeed)
	s.AutoDelay = clamp(s.AutoDelay, 0, MaxAutoDelay)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}

