package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request is one inbound chat-message payload.
//
// Content is forwarded to the generator untouched: it is either a single text
// body or the ordered list of prior conversation turns.
type Request struct {
	Content        json.RawMessage `json:"content"`
	Goal           string          `json:"goal,omitempty"`
	ProjectContext string          `json:"projectContext,omitempty"`
	CompanyContext string          `json:"companyContext,omitempty"`
}

// UnmarshalJSON accepts a bare JSON string (the string is the content), an
// object carrying "content" or the older "messages" key, or any other object,
// which is then forwarded whole as the content.
func (r *Request) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: empty payload", ErrInvalidRequest)
	}

	if data[0] != '{' {
		if !json.Valid(data) {
			return fmt.Errorf("%w: malformed payload", ErrInvalidRequest)
		}
		*r = Request{Content: cloneRaw(data)}
		return nil
	}

	var wire struct {
		Content        json.RawMessage `json:"content"`
		Messages       json.RawMessage `json:"messages"`
		Goal           *string         `json:"goal"`
		ProjectContext *string         `json:"projectContext"`
		CompanyContext *string         `json:"companyContext"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	out := Request{
		Goal:           deref(wire.Goal),
		ProjectContext: deref(wire.ProjectContext),
		CompanyContext: deref(wire.CompanyContext),
	}
	switch {
	case isPresent(wire.Content):
		out.Content = cloneRaw(wire.Content)
	case isPresent(wire.Messages):
		out.Content = cloneRaw(wire.Messages)
	default:
		out.Content = cloneRaw(data)
	}
	*r = out
	return nil
}

// ContentJSON returns the compact JSON encoding of the content, which is what
// providers send as the user turn.
func (r Request) ContentJSON() string {
	if len(r.Content) == 0 {
		return `""`
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Content); err != nil {
		return string(r.Content)
	}
	return buf.String()
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func cloneRaw(raw []byte) json.RawMessage {
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
