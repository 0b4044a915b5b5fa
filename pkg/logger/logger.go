// Package logger is a thin zap wrapper. Loggers travel in the context so
// service code can log with request ids attached without knowing about HTTP.
package logger

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	appctx "oflo/internal/core/context"
)

type Logger struct {
	*zap.SugaredLogger
}

type Config struct {
	Level       string // debug, info, warn, error; anything else means info
	Development bool   // console encoder with colours
	OutputPaths []string
}

// New builds a logger. An unparsable level is treated as info.
func New(cfg Config) (*Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	z, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{z.Sugar()}, nil
}

// NewForTest routes output through t.Log.
func NewForTest(t zaptest.TestingT) *Logger {
	return &Logger{zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCallerSkip(1))).Sugar()}
}

var fallback atomic.Pointer[Logger]

// Default is used when the context carries no logger. Until SetDefault is
// called it is a production logger on stdout.
func Default() *Logger {
	if l := fallback.Load(); l != nil {
		return l
	}
	l, err := New(Config{Level: "info", OutputPaths: []string{"stdout"}})
	if err != nil {
		l = &Logger{zap.NewNop().Sugar()}
	}
	fallback.CompareAndSwap(nil, l)
	return fallback.Load()
}

// SetDefault is called once by each command after reading its config.
func SetDefault(l *Logger) {
	fallback.Store(l)
}

// WithContext attaches the request ids found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	t := appctx.GetTrace(ctx)
	if t == nil {
		return l
	}
	return &Logger{l.With("trace_id", t.TraceID, "request_id", t.RequestID)}
}

// WithComponent tags every entry with the command or subsystem name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.With("component", name)}
}

type ctxKey struct{}

func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the context logger, or Default, with request ids.
func FromContext(ctx context.Context) *Logger {
	l, ok := ctx.Value(ctxKey{}).(*Logger)
	if !ok {
		l = Default()
	}
	return l.WithContext(ctx)
}

func Debug(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Debugw(msg, kv...) }
func Info(ctx context.Context, msg string, kv ...any)  { FromContext(ctx).Infow(msg, kv...) }
func Warn(ctx context.Context, msg string, kv ...any)  { FromContext(ctx).Warnw(msg, kv...) }
func Error(ctx context.Context, msg string, kv ...any) { FromContext(ctx).Errorw(msg, kv...) }
