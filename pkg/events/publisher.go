package events

import (
	"context"
	"sync"
)

// EventPublisher is the interface for publishing employee change events.
type EventPublisher interface {
	PublishChanged(ctx context.Context, event *EmployeeChangedEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (for in-process usage without events).
type NoOpPublisher struct{}

// PublishChanged is a no-op.
func (p *NoOpPublisher) PublishChanged(_ context.Context, _ *EmployeeChangedEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls a callback function (for testing).
type CallbackPublisher struct {
	callback func(ctx context.Context, event *EmployeeChangedEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *EmployeeChangedEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// PublishChanged calls the callback.
func (p *CallbackPublisher) PublishChanged(ctx context.Context, event *EmployeeChangedEvent) error {
	return p.callback(ctx, event)
}

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []*EmployeeChangedEvent
}

// PublishChanged records the event.
func (p *RecordingPublisher) PublishChanged(_ context.Context, event *EmployeeChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []*EmployeeChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*EmployeeChangedEvent, len(p.events))
	copy(out, p.events)
	return out
}
