package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured, leveled logger used across the module. It wraps
// zap.SugaredLogger rather than exposing it directly so that callers depend on a
// small interface instead of a concrete third-party type.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	// Named returns a descendant logger whose messages are tagged with name,
	// appended to any existing name chain.
	Named(name string) Logger
	// Level reports the minimum level this logger will emit.
	Level() Level
}

type impl struct {
	sugar *zap.SugaredLogger
	level *zap.AtomicLevel
}

// New returns a Logger at the given level that writes human-readable, colorized
// output to stderr, in the style of zap's development config.
func New(name string, level Level) Logger {
	atom := zap.NewAtomicLevelAt(level.zapLevel())
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atom
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	base, err := cfg.Build()
	if err != nil {
		// zap.NewDevelopmentConfig().Build() only fails on a malformed config;
		// our config is a known-good literal, so this is unreachable in practice.
		base = zap.NewNop()
	}
	return &impl{sugar: base.Sugar().Named(name), level: &atom}
}

// NewTest returns a Logger suitable for use in tests: DEBUG level, no sampling.
func NewTest() Logger {
	return New("test", DEBUG)
}

func (l *impl) Debug(args ...interface{}) { l.sugar.Debug(args...) }
func (l *impl) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }
func (l *impl) Debugw(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *impl) Info(args ...interface{}) { l.sugar.Info(args...) }
func (l *impl) Infof(template string, args ...interface{}) { l.sugar.Infof(template, args...) }
func (l *impl) Infow(msg string, kv ...interface{}) { l.sugar.Infow(msg, kv...) }
func (l *impl) Warn(args ...interface{}) { l.sugar.Warn(args...) }
func (l *impl) Warnf(template string, args ...interface{}) { l.sugar.Warnf(template, args...) }
func (l *impl) Warnw(msg string, kv ...interface{}) { l.sugar.Warnw(msg, kv...) }
func (l *impl) Error(args ...interface{}) { l.sugar.Error(args...) }
func (l *impl) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }
func (l *impl) Errorw(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }

func (l *impl) Named(name string) Logger {
	return &impl{sugar: l.sugar.Named(name), level: l.level}
}

func (l *impl) Level() Level {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return DEBUG
	case zapcore.WarnLevel:
		return WARN
	case zapcore.ErrorLevel:
		return ERROR
	default:
		return INFO
	}
}
