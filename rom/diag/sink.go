package diag

import (
	"context"
	"log/slog"
)

// Sink receives events.
type Sink interface {
	Report(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Report calls f(e).
func (f SinkFunc) Report(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Tee fans each event out to every sink.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			s.Report(e)
		}
	})
}

// SlogSink writes events to a structured logger.
type SlogSink struct {
	Logger *slog.Logger
}

// Report logs e at a level matching its severity.
func (s SlogSink) Report(e Event) {
	level := slog.LevelInfo
	switch e.Severity {
	case SevWarning:
		level = slog.LevelWarn
	case SevError:
		level = slog.LevelError
	}
	attrs := []slog.Attr{
		slog.String("resource", e.Resource),
		slog.String("kind", e.Kind.String()),
		slog.Int("count", e.Count),
	}
	if e.Unit != "" {
		attrs = append(attrs, slog.String("unit", string(e.Unit)))
	}
	if e.Offset >= 0 {
		attrs = append(attrs, slog.Int("offset", e.Offset))
	}
	if e.Detail != "" {
		attrs = append(attrs, slog.String("detail", e.Detail))
	}
	s.Logger.LogAttrs(context.Background(), level, "romkit diagnostic", attrs...)
}
