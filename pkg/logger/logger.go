// Package logger wraps zap behind the small interface the rest of the
// application logs through.
package logger

import (
	"fmt"

	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger methods without the f suffix take a message followed by
// key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
	With(keysAndValues ...any) Logger
	Sync() error
}

type ZapLogger struct {
	l *zap.SugaredLogger
}

func New(cfg config.Logger) (*ZapLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level error: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if len(cfg.Output) != 0 {
		zcfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zcfg.ErrorOutputPaths = cfg.ErrOutput
	}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}

	return &ZapLogger{l: l.Sugar()}, nil
}

// FromZap adapts an existing zap logger, e.g. zaptest or zap.NewNop.
func FromZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

func (z *ZapLogger) Debug(msg string, keysAndValues ...any) {
	z.l.Debugw(msg, keysAndValues...)
}

func (z *ZapLogger) Info(msg string, keysAndValues ...any) {
	z.l.Infow(msg, keysAndValues...)
}

func (z *ZapLogger) Warn(msg string, keysAndValues ...any) {
	z.l.Warnw(msg, keysAndValues...)
}

func (z *ZapLogger) Error(msg string, keysAndValues ...any) {
	z.l.Errorw(msg, keysAndValues...)
}

func (z *ZapLogger) Infof(format string, args ...any) {
	z.l.Infof(format, args...)
}

func (z *ZapLogger) Errorf(format string, args ...any) {
	z.l.Errorf(format, args...)
}

func (z *ZapLogger) With(keysAndValues ...any) Logger {
	return &ZapLogger{l: z.l.With(keysAndValues...)}
}

func (z *ZapLogger) Sync() error {
	return z.l.Sync() //nolint:wrapcheck
}
