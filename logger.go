package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logConfig struct {
	// Development switches to the colored console encoder.
	Development bool
	Level       string
}

// newLogger builds the process logger. An unknown level falls back to info.
func newLogger(cfg logConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}
