// Package logger builds the zap loggers used across reflookup.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log line as "service".
const ServiceName = "reflookup"

// NewLogger creates a zap logger for the given environment.
// prod emits JSON with sampling; local, dev and docker emit colored console
// output; test discards everything. Every line carries service and env.
// levelOverride (if non-empty) overrides the log level: debug, info, warn, error.
func NewLogger(env string, levelOverride ...string) (*zap.Logger, error) {
	if env == "test" {
		return zap.NewNop(), nil
	}

	cfg, err := configFor(env)
	if err != nil {
		return nil, err
	}
	if len(levelOverride) > 0 && levelOverride[0] != "" {
		level, err := zapcore.ParseLevel(levelOverride[0])
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelOverride[0], err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	l, err := cfg.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", ServiceName), zap.String("env", env)),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func configFor(env string) (zap.Config, error) {
	switch env {
	case "prod":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg, nil
	case "local", "dev", "docker":
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg, nil
	}
	return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
}

// ForSession returns a child logger tagged with the lookup session id.
func ForSession(l *zap.Logger, sessionID string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return l.With(zap.String("session_id", sessionID))
}

// ForUser tags l with the signed-in user and plan. Empty values are omitted.
func ForUser(l *zap.Logger, userID, planID string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	var fields []zap.Field
	if userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if planID != "" {
		fields = append(fields, zap.String("plan_id", planID))
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
