package events

import "sync"

//go:generate mockgen -destination=mock/mock_sink.go -package=mockevents -source=sink.go

// Sink receives battle events. The battle core only ever writes to it.
type Sink interface {
	Emit(event Event) error
}

// Discard is a sink that drops every event
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) error { return nil }

// Recorder is a sink and listener that keeps every event it sees
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{events: []Event{}}
}

// Emit implements Sink
func (r *Recorder) Emit(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// HandleEvent implements EventListener
func (r *Recorder) HandleEvent(event Event) error { return r.Emit(event) }

// Priority implements EventListener
func (r *Recorder) Priority() int { return PriorityDiagnostics }

// ID implements EventListener
func (r *Recorder) ID() string { return "recorder" }

// Events returns a copy of everything recorded
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events of one type
func (r *Recorder) OfType(eventType EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Event{}
	for _, e := range r.events {
		if e.GetType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Messages returns the text of every recorded message event
func (r *Recorder) Messages() []string {
	out := []string{}
	for _, e := range r.OfType(EventTypeMessage) {
		if m, ok := e.(*MessageEvent); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

// Reset forgets everything recorded
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = []Event{}
}
