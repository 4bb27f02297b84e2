package app

import (
	"io"
	"log"
	"os"

	"github.com/gonewx/vnstage/pkg/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// nopCloser 未启用日志文件时返回的空关闭器
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging 配置标准库日志的输出目标
//
// 规则：
//   - 设置了 LogFile 时写入按尺寸轮转的日志文件，verbose 时同时输出到标准错误
//   - 未设置 LogFile 且非 verbose 时丢弃日志
//
// 返回的 Closer 在程序退出前关闭日志文件。
func SetupLogging(verbose bool, rc *config.RuntimeConfig) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if rc == nil || rc.LogFile == "" {
		if !verbose {
			log.SetOutput(io.Discard)
			log.SetFlags(0)
		} else {
			log.SetOutput(os.Stderr)
		}
		return nopCloser{}
	}

	rotator := &lumberjack.Logger{
		Filename:   rc.LogFile,
		MaxSize:    rc.LogMaxSizeMB,
		MaxBackups: rc.LogMaxBackups,
	}
	if verbose {
		log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	} else {
		log.SetOutput(rotator)
	}
	return rotator
}
