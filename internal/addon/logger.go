package addon

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger for the given minimum log level ("debug",
// "info", "warn" or "error") and encoding ("console" or "json").
func NewLogger(level, encoding string) (*zap.Logger, error) {
	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse log level: %w", err)
	}

	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(logLevel)
	logConfig.Encoding = encoding
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("couldn't build logger: %w", err)
	}
	return logger, nil
}
