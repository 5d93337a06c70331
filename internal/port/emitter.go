package port

// Emitter delivers named events to one realtime client. A nil payload sends
// the bare event. Emitting to a closed connection is a silent no-op.
type Emitter interface {
	Emit(event string, payload interface{})
}
