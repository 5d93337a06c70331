package mocks

import "sync"

// EmittedEvent is one event captured by RecordingEmitter.
type EmittedEvent struct {
	Name    string
	Payload interface{}
}

// RecordingEmitter implements port.Emitter by recording every event in order.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []EmittedEvent
}

func (r *RecordingEmitter) Emit(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, EmittedEvent{Name: event, Payload: payload})
}

// Events returns a copy of the recorded events.
func (r *RecordingEmitter) Events() []EmittedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmittedEvent(nil), r.events...)
}

// Names returns the recorded event names in emission order.
func (r *RecordingEmitter) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}
