// Package zaplogger writes resolver and broadcaster log events through zap.
package zaplogger

import (
	inject "github.com/goliatone/go-inject"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger implements inject.ResolveLogger and inject.BroadcastLogger.
type Logger struct {
	log *zap.Logger
}

// New wraps log. A nil logger discards everything.
func New(log *zap.Logger) Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return Logger{log: log}
}

// NewProduction builds a JSON logger at level, tagged with app.
func NewProduction(app string, level zapcore.Level) (Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	log, err := config.Build()
	if err != nil {
		return Logger{}, err
	}
	return New(log.With(zap.String("app", app))), nil
}

func (l Logger) LogResolution(event inject.ResolveLogEvent) {
	fields := []zap.Field{
		zap.String("component", event.Component),
		zap.String("predicate", event.Predicate),
		zap.String("node", event.Node),
		zap.Stringer("policy", event.Policy),
		zap.Bool("cache_hit", event.CacheHit),
		zap.Bool("stored", event.Stored),
		zap.Int("count", event.Count),
		zap.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		l.log.Error("resolve", append(fields, zap.Error(event.Err))...)
		return
	}
	l.log.Debug("resolve", fields...)
}

func (l Logger) LogBroadcast(event inject.BroadcastLogEvent) {
	fields := []zap.Field{
		zap.String("node", event.Node),
		zap.String("phase", string(event.Phase)),
		zap.String("bundle", event.Bundle),
		zap.Int("consumers", event.Consumers),
		zap.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		l.log.Error("broadcast", append(fields, zap.Error(event.Err))...)
		return
	}
	l.log.Debug("broadcast", fields...)
}
