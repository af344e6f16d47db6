package common

import (
	_ "github.com/heyvito/zap-human"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = newDefaultLogger()

func newDefaultLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// GetLogger returns the package's logger.
func GetLogger() *zap.Logger {
	return log
}

// SetLogger sets the package's logger.
func SetLogger(l *zap.Logger) {
	log = l
}

// NewHumanLogger builds a colorized, human-readable development logger,
// the same way dispatch/config.InitializeLogging configures debug-mode
// logging: zap's development config with the "human" encoding registered
// by zap-human's side-effect import, and capitalized colored level names.
func NewHumanLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "human"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableCaller = true
	return cfg.Build()
}
