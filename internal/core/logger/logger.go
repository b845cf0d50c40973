package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "trackingstuff"

var globalLogger *zap.Logger

// Init builds the process-wide logger for the tracking API. Production gets
// JSON lines with ISO8601 timestamps for log shipping; any other environment
// gets colored console output. An unknown level leaves the preset's default.
// Every entry carries the service and environment names.
func Init(environment string, level string) error {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if l, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(l)
	}

	logger, err := config.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("environment", environment),
	))
	if err != nil {
		return err
	}

	globalLogger = logger
	return nil
}

// Get returns the logger set up by Init, or a no-op logger before Init so
// packages and tests can log unconditionally.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Named returns a child of the global logger scoped to a component such as
// "sqlite_store" or "geocode".
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

// Sync flushes buffered entries before the process exits.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
