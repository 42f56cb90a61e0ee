package domain

import (
	"bytes"
	"context"
	"encoding/json"
)

// FetchOutcome classifies how an upstream request ended.
type FetchOutcome string

const (
	FetchSuccess        FetchOutcome = "success"
	FetchTimeout        FetchOutcome = "timeout"
	FetchTransportError FetchOutcome = "transport_error"
	FetchStatusError    FetchOutcome = "status_error"
	FetchDecodeError    FetchOutcome = "decode_error"
)

// FetchResult is the outcome of one upstream GET. Body is set only on success;
// StatusCode is set whenever a response was received.
type FetchResult struct {
	Outcome    FetchOutcome
	StatusCode int
	Body       json.RawMessage
	Err        error
}

// Payload returns the decoded body and true on success. Every failure kind
// collapses to (nil, false).
func (r FetchResult) Payload() (json.RawMessage, bool) {
	if r.Outcome != FetchSuccess {
		return nil, false
	}
	return r.Body, true
}

// Fetcher retrieves a JSON document from an absolute URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) FetchResult
}

// IsEmptyPayload reports whether a payload carries no data at all: null,
// an empty object or array, an empty string, false, or zero.
func IsEmptyPayload(p json.RawMessage) bool {
	var buf bytes.Buffer
	if err := json.Compact(&buf, p); err != nil {
		return len(bytes.TrimSpace(p)) == 0
	}
	switch buf.String() {
	case "", "null", "{}", "[]", `""`, "false", "0":
		return true
	}
	return false
}
