// Package apierr converts upstream and transport failures into messages that
// are safe to show to site visitors.
package apierr

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// GenericMessage is shown when an upstream body carries nothing usable.
	GenericMessage = "Something went wrong. Please try again."
	// NetworkMessage is shown when the request never reached the server.
	NetworkMessage = "Network error. Please check your connection and try again."
)

// UpstreamError is a non-2xx answer from a third-party provider.
type UpstreamError struct {
	Service string
	Status  int
	Message string
	// Title is the provider's short error class, when it sends one.
	Title string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.Status, e.Message)
}

// MessageFromBody extracts a message from a JSON error body. It looks at
// "error" (string or {"message"}), "message", "detail" and "title" in that
// order and returns fallback when the body is not JSON or has none of them.
func MessageFromBody(body []byte, fallback string) string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return fallback
	}
	for _, key := range []string{"error", "message", "detail", "title"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return fallback
}

// TitleFromBody returns the "title" field of a JSON body, or "".
func TitleFromBody(body []byte) string {
	var v struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return ""
	}
	return v.Title
}
