// Package log wraps zap with context-aware logging. All logging in this
// repository goes through the package-level functions, which delegate to a
// process-wide logger. Hooks pull correlation ids out of the context so that
// every entry emitted during a pipeline run carries the run's trace id.
package log

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the process logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `conf:"level" yaml:"level" json:"level"`
	// Format is either json or console.
	Format string `conf:"format" yaml:"format" json:"format"`
	File   File   `conf:"file" yaml:"file" json:"file"`
}

// File enables rotating file output when Path is set; otherwise logs go to stderr.
type File struct {
	Path       string `conf:"path" yaml:"path" json:"path"`
	MaxSize    int    `conf:"max_size" yaml:"max_size" json:"max_size"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `conf:"max_age" yaml:"max_age" json:"max_age"`
	Compress   bool   `conf:"compress" yaml:"compress" json:"compress"`
}

// Logger wraps a zap logger with context hooks.
type Logger struct {
	zap   *zap.Logger
	level zap.AtomicLevel
	hooks []Hook
}

// New constructs a Logger from config.
func New(cfg Config) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}

		level.SetLevel(parsed)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	if cfg.File.Path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSize,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAge,
			Compress:   cfg.File.Compress,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(encoder, sink, level)

	return &Logger{
		zap:   zap.New(core, zap.AddCallerSkip(2)),
		level: level,
	}, nil
}

// AddHook registers a context hook. Hooks are expected to be registered
// during process startup (see tracing.SetupLogger); registration is not safe
// concurrently with logging.
func (l *Logger) AddHook(hook Hook) {
	l.hooks = append(l.hooks, hook)
}

func (l *Logger) applyHooks(ctx context.Context, msg string, fields []Field) []Field {
	for _, hook := range l.hooks {
		fields = hook.Apply(ctx, msg, fields...)
	}

	return fields
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.zap.Debug(msg, l.applyHooks(ctx, msg, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.zap.Info(msg, l.applyHooks(ctx, msg, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.zap.Warn(msg, l.applyHooks(ctx, msg, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.zap.Error(msg, l.applyHooks(ctx, msg, fields)...)
}

// DebugEnabled reports whether debug entries would be written.
func (l *Logger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

var globalLogger atomic.Pointer[Logger]

//nolint:gochecknoinits // Default logger so package-level logging works before setup.
func init() {
	logger, err := New(Config{Level: "info"})
	if err != nil {
		panic(err)
	}

	logger.AddHook(HookFunc(traceFields))
	globalLogger.Store(logger)
}

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(logger *Logger) {
	globalLogger.Store(logger)
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() *Logger {
	return globalLogger.Load()
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	globalLogger.Load().Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	globalLogger.Load().Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	globalLogger.Load().Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	globalLogger.Load().Error(ctx, msg, fields...)
}

// DebugEnabled reports whether the global logger writes debug entries.
func DebugEnabled(ctx context.Context) bool {
	return globalLogger.Load().DebugEnabled()
}
