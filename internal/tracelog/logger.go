// Package tracelog provides the low-volume structured logging used by the
// schema compiler to report internal decisions (the number of named types
// a compiled schema declares) at debug level.
//
// It is not a spec component: callers of this module never need to import
// it directly, they only see its effect through zap's global logger or a
// logger attached via WithLogger.
package tracelog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey struct{}

var loggerCtxKey = contextKey{}

// Config controls how New builds a logger. The zero value is valid and
// yields an Info-level, production-encoded logger writing to stderr.
type Config struct {
	Level       zapcore.Level
	Development bool
}

// Validate reports whether the configuration is usable as-is. Config has no
// fields that can hold an invalid combination today, but the method exists
// so callers can treat Config the same way the rest of this module treats
// its option structs: validate, then construct.
func (c Config) Validate() error {
	return nil
}

// New builds a zap.Logger for the given configuration.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tracelog: invalid config: %w", err)
	}

	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("tracelog: build logger: %w", err)
	}
	return logger, nil
}

// FromContext extracts a logger from ctx, falling back to zap's global
// logger (zap.L()) if none was attached. Safe to call with a nil context.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.L()
	}
	if l, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.L()
}

// WithLogger attaches logger to ctx for later retrieval via FromContext.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerCtxKey, logger)
}
