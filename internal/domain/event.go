package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tool-call outcomes recorded on events.
const (
	OutcomeOK        = "ok"
	OutcomeToolError = "tool_error" // the tool rejected its arguments
	OutcomeError     = "error"      // the handler failed, e.g. on a malformed upstream payload
)

// ToolCallEvent records one tool invocation for downstream consumers.
type ToolCallEvent struct {
	ID         string         `json:"id"`
	Tool       string         `json:"tool"`
	Arguments  map[string]any `json:"arguments,omitempty"`
	Outcome    string         `json:"outcome"`
	DurationMS int64          `json:"duration_ms"`
	CalledAt   time.Time      `json:"called_at"`
}

// NewToolCallEvent builds an event for a call that just finished after d.
// The ID is a random UUID; CalledAt is the call's start time in UTC.
func NewToolCallEvent(tool string, args map[string]any, outcome string, d time.Duration) ToolCallEvent {
	return ToolCallEvent{
		ID:         uuid.NewString(),
		Tool:       tool,
		Arguments:  args,
		Outcome:    outcome,
		DurationMS: d.Milliseconds(),
		CalledAt:   clock.Now().Add(-d).UTC(),
	}
}
