package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// RuntimeConfig 运行时配置（来自环境变量）
type RuntimeConfig struct {
	// AssetDir 资源根目录，场景清单、脚本、图像和音乐都相对于它
	AssetDir string `env:"VNSTAGE_ASSET_DIR" envDefault:"assets"`
	// StartScene 启动时加载的场景清单（相对于 AssetDir 下的 scenes 目录，不含扩展名）
	StartScene string `env:"VNSTAGE_START_SCENE" envDefault:"prologue"`
	// LogFile 日志文件路径，为空时只输出到标准错误
	LogFile string `env:"VNSTAGE_LOG_FILE"`
	// LogMaxSizeMB 单个日志文件的最大尺寸，超过后轮转
	LogMaxSizeMB int `env:"VNSTAGE_LOG_MAX_SIZE_MB" envDefault:"10"`
	// LogMaxBackups 保留的旧日志文件数量
	LogMaxBackups int `env:"VNSTAGE_LOG_MAX_BACKUPS" envDefault:"3"`

	// FontPath 对话框字体（相对于 AssetDir），为空时使用调试字体
	FontPath string  `env:"VNSTAGE_FONT"`
	FontSize float64 `env:"VNSTAGE_FONT_SIZE" envDefault:"28"`

	WindowWidth  int    `env:"VNSTAGE_WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight int    `env:"VNSTAGE_WINDOW_HEIGHT" envDefault:"720"`
	AppName      string `env:"VNSTAGE_APP_NAME" envDefault:"vnstage"`
}

// LoadRuntimeConfig 从环境变量加载运行时配置
func LoadRuntimeConfig() (*RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validateRuntimeConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid runtime config: %w", err)
	}
	return &cfg, nil
}

func validateRuntimeConfig(cfg *RuntimeConfig) error {
	if cfg.WindowWidth <= 0 || cfg.WindowHeight <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}
	if cfg.AppName == "" {
		return fmt.Errorf("app name is required")
	}
	if cfg.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", cfg.FontSize)
	}
	if cfg.LogMaxSizeMB <= 0 {
		return fmt.Errorf("log max size must be positive, got %d", cfg.LogMaxSizeMB)
	}
	return nil
}
