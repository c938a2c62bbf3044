// Package events is the reporting channel of a batch run. A run emits one
// Progress event after every item, at most one Error event when it cannot
// start, and exactly one Completion event when it finishes.
package events

import (
	"context"
	"errors"
	"fmt"
)

// Type identifies an event.
type Type string

const (
	TypeProgress   Type = "progress"
	TypeCompletion Type = "completion"
	TypeError      Type = "error"
)

// Event is a single report from a run. Seq is the run's logical clock value
// when the event was emitted.
type Event struct {
	Type    Type   `json:"type"`
	Seq     int64  `json:"seq"`
	RunID   string `json:"run,omitempty"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

// Progress reports that current of total items have been attempted.
func Progress(current, total int) Event {
	return Event{Type: TypeProgress, Current: current, Total: total}
}

// Completion reports the end of a run.
func Completion(msg string) Event {
	return Event{Type: TypeCompletion, Message: msg}
}

// Error reports a run that could not proceed.
func Error(msg string) Event {
	return Event{Type: TypeError, Message: msg}
}

// String renders e on one line.
func (e Event) String() string {
	switch e.Type {
	case TypeProgress:
		return fmt.Sprintf("[progress] %d/%d", e.Current, e.Total)
	default:
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
}

// Sink receives events.
type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type nopSink struct{}

func (nopSink) Write(Event) error           { return nil }
func (nopSink) Close(context.Context) error { return nil }

// Nop returns a sink that discards every event.
func Nop() Sink {
	return nopSink{}
}

// MultiSink fans events out to several sinks.
type MultiSink []Sink

// Multi combines sinks, skipping nils.
func Multi(sinks ...Sink) MultiSink {
	out := make(MultiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Write delivers e to every sink and joins their errors.
func (m MultiSink) Write(e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins their errors.
func (m MultiSink) Close(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
