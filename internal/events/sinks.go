package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// MemorySink keeps events in memory. Used by tests.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{events: make([]Event, 0)}
}

func (s *MemorySink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

// Events returns a copy of the recorded events.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]Event, len(s.events))
	copy(copied, s.events)
	return copied
}

// OfType returns the recorded events of type t.
func (s *MemorySink) OfType(t Type) []Event {
	var out []Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}

// ConsoleSink writes one text line per event.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = io.Discard
	}
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, e.String()+"\n")
	return err
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

// JSONSink emits newline-delimited JSON events.
type JSONSink struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	if w == nil {
		w = io.Discard
	}
	return &JSONSink{encoder: json.NewEncoder(w)}
}

func (s *JSONSink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoder.Encode(e)
}

func (s *JSONSink) Close(context.Context) error {
	return nil
}

// LogSink forwards events to a structured logger. Progress is logged at
// debug level, completion at info and errors at error.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(e Event) error {
	switch e.Type {
	case TypeProgress:
		s.logger.Debug("batch progress", "run", e.RunID, "seq", e.Seq, "current", e.Current, "total", e.Total)
	case TypeError:
		s.logger.Error("batch error", "run", e.RunID, "seq", e.Seq, "message", e.Message)
	default:
		s.logger.Info("batch complete", "run", e.RunID, "seq", e.Seq, "message", e.Message)
	}
	return nil
}

func (s *LogSink) Close(context.Context) error {
	return nil
}
