package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToolCallEvent(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	args := map[string]any{"state": "WA"}
	event := NewToolCallEvent("get_alerts", args, OutcomeOK, 1500*time.Millisecond)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "get_alerts", event.Tool)
	assert.Equal(t, args, event.Arguments)
	assert.Equal(t, OutcomeOK, event.Outcome)
	assert.Equal(t, int64(1500), event.DurationMS)
	assert.Equal(t, now.Add(-1500*time.Millisecond), event.CalledAt)

	other := NewToolCallEvent("get_alerts", args, OutcomeOK, time.Second)
	assert.NotEqual(t, event.ID, other.ID)
}
