package domain

import "time"

// Realtime event names.
const (
	EventChatMessage   = "chat-message"
	EventLoading       = "loading"
	EventParsedOptions = "parsedOptions"
	EventDebugInfo     = "debugInfo"
	EventChatError     = "chatError"
	EventLoaded        = "loaded"
)

// DebugInfo is emitted after options have been delivered.
type DebugInfo struct {
	Message      string `json:"message"`
	OptionsCount int    `json:"optionsCount"`
	Timestamp    string `json:"timestamp"`
}

// ChatError is emitted when a cycle fails.
type ChatError struct {
	Error     string `json:"error"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// Timestamp formats t the way event payloads carry it.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
