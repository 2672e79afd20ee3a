package events

import (
	"context"
	"sync"
)

// RecordingPublisher keeps events in memory. Useful for tests and dry runs.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Recorded
}

// Recorded is one captured publish call.
type Recorded struct {
	Topic string
	Event any
}

func (p *RecordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Recorded{Topic: topic, Event: event})
	return nil
}

// Events returns a copy of everything published so far.
func (p *RecordingPublisher) Events() []Recorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Recorded, len(p.events))
	copy(out, p.events)
	return out
}

func (p *RecordingPublisher) Close() error { return nil }
