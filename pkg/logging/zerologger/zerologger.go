// Package zerologger writes resolver and broadcaster log events through
// zerolog.
package zerologger

import (
	"os"
	"time"

	inject "github.com/goliatone/go-inject"
	"github.com/rs/zerolog"
)

// Logger implements inject.ResolveLogger and inject.BroadcastLogger.
type Logger struct {
	log zerolog.Logger
}

// New wraps an existing zerolog logger.
func New(log zerolog.Logger) Logger {
	return Logger{log: log}
}

// NewConsole builds a console logger tagged with app.
func NewConsole(app string, level zerolog.Level) Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return New(zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger())
}

// LogResolution implements inject.ResolveLogger. Successful calls log at
// debug level, validation and predicate failures at error level.
func (l Logger) LogResolution(event inject.ResolveLogEvent) {
	entry := l.log.Debug()
	if event.Err != nil {
		entry = l.log.Error().Err(event.Err)
	}
	entry.
		Str("component", event.Component).
		Str("predicate", event.Predicate).
		Str("node", event.Node).
		Stringer("policy", event.Policy).
		Bool("cache_hit", event.CacheHit).
		Bool("stored", event.Stored).
		Int("count", event.Count).
		Dur("duration", event.Duration).
		Msg("resolve")
}

// LogBroadcast implements inject.BroadcastLogger.
func (l Logger) LogBroadcast(event inject.BroadcastLogEvent) {
	entry := l.log.Debug()
	if event.Err != nil {
		entry = l.log.Error().Err(event.Err)
	}
	entry.
		Str("node", event.Node).
		Str("phase", string(event.Phase)).
		Str("bundle", event.Bundle).
		Int("consumers", event.Consumers).
		Dur("duration", event.Duration).
		Msg("broadcast")
}
