// Package log builds the process-wide zap.Logger, grounded in the teacher
// corpus's own log construction (pkg/dflog/logcore), trimmed to the one
// file this project ever writes rather than the teacher's per-component
// (core/grpc/gc) split.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how the logger writes. A zero Config logs to
// stderr only, which is what the CLI's default (console, non-daemon) mode
// uses.
type Config struct {
	// FilePath, if non-empty, rotates logs through lumberjack in addition
	// to writing to stderr.
	FilePath   string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
	Verbose    bool
}

// New builds a zap.Logger per cfg. Unlike the teacher's CreateLogger, which
// branches on the log file's base name to pick a severity floor per
// component, this project has exactly one log stream, so the level is a
// single atomic value toggled by cfg.Verbose.
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), level),
	}

	if cfg.FilePath != "" {
		rotate := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotate), level))
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel)), nil
}
