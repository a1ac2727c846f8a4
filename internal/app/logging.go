package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mcpsettings/internal/infra/telemetry"
)

// LoggingConfig configures logging wiring.
type LoggingConfig struct {
	Logger *zap.Logger
	Source string
}

// Logging bundles the component logger.
type Logging struct {
	Logger *zap.Logger
}

// NewLogging tags the base logger with its log source. A nil logger discards output.
func NewLogging(cfg LoggingConfig) Logging {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	source := cfg.Source
	if source == "" {
		source = telemetry.LogSourceCore
	}
	return Logging{
		Logger: logger.With(telemetry.LogSourceField(source)).Named("app"),
	}
}

// NewLogger returns the logger from a Logging bundle.
func NewLogger(logging Logging) *zap.Logger {
	return logging.Logger
}

// NewDevelopmentLogger builds the console logger used by the desktop app and the CLI.
func NewDevelopmentLogger(level string) (*zap.Logger, error) {
	parsed, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.Level = zap.NewAtomicLevelAt(parsed)
	config.DisableStacktrace = true
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLogLevel accepts zap level names. An empty string selects info.
func ParseLogLevel(level string) (zapcore.Level, error) {
	trimmed := strings.TrimSpace(level)
	if trimmed == "" {
		return zapcore.InfoLevel, nil
	}
	parsed, err := zapcore.ParseLevel(trimmed)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return parsed, nil
}
