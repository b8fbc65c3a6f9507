package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a JSON production logger, a console development logger,
// or a no-op logger for tests. debug lowers the level to Debug.
func NewLogger(env string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case EnvTesting:
		return zap.NewNop(), nil
	case EnvDevelopment:
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}
