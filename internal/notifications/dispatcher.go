package notifications

import (
	"context"
	"encoding/json"
)

// Result is the outcome reported by a push provider for a single message.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Dispatcher delivers a push message to a device token.
type Dispatcher interface {
	Send(ctx context.Context, token, title, body string, data map[string]any) (Result, error)
}
