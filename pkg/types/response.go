package types

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// MessageEnvelope carries a human-readable confirmation plus the affected
// entity keyed by its singular name, e.g. {"message": ..., "client": {...}}.
// Handlers build it with responses.WriteMessage.
type MessageEnvelope map[string]any
