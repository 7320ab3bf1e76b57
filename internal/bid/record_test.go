package bid

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	r := New("B-1", "Gym Renovation", "Turner", "Mike Chen", "mike@turner.example", now)

	assert.Equal(t, StatusReadyToSubmit, r.Status)
	assert.Equal(t, "Email", r.Platform, "platform defaults to Email")
	assert.Equal(t, now, r.CreatedAt)
	assert.Empty(t, r.Audit, "creation is not a transition and logs nothing")
	assert.Empty(t, r.FollowUps)
	assert.Nil(t, r.Blocked)
}

func TestNew_Options(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 10)
	r := New("B-1", "Gym Renovation", "Turner", "Mike Chen", "mike@turner.example", now,
		WithPlatform("PlanHub"),
		WithDueAt(due),
		WithEstimatorPhone("555-0142"),
	)

	assert.Equal(t, "PlanHub", r.Platform)
	require.NotNil(t, r.DueAt)
	assert.Equal(t, due, *r.DueAt)
	assert.Equal(t, "555-0142", r.EstimatorPhone)
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	deadline := now.AddDate(0, 0, 2)
	price := 141000.0

	r := New("B-1", "Gym Renovation", "Turner", "Mike Chen", "mike@turner.example", now,
		WithPlatform("PlanHub"))
	r.SubmittedAt = &now
	r.ProofRef = "screenshots/gym.png"
	r.FollowUps = NewFollowUpSchedule(now)
	r.FollowUps[0].SentAt = &deadline
	r.FollowUps[0].GCResponded = true
	r.FollowUps[0].ResponseNote = "Got it, thanks"
	r.LastGCResponse = GCResponseReviewing
	r.GCResponseNotes = []string{"[2025-03-05] Got it, thanks"}
	r.Close = &CloseRecord{
		ClosedAt:     now.AddDate(0, 0, 30),
		Reason:       LossPrice,
		WinningSub:   "Apex Electric",
		WinningPrice: &price,
		Notes:        "Tight market",
	}
	r.Status = StatusClosedLost
	r.Audit = []AuditEntry{
		{At: now, Status: StatusFollowUpActive, Note: "Submitted with proof: screenshots/gym.png"},
		{At: now.AddDate(0, 0, 30), Status: StatusClosedLost, Note: "LOST: PRICE"},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *r, back, "serialize then deserialize reproduces the record")
}

func TestRecord_Predicates(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	r := New("B-1", "Gym Renovation", "Turner", "Mike Chen", "mike@turner.example", now)

	assert.False(t, r.Submitted())
	assert.False(t, r.IsClosed())
	assert.False(t, r.IsBlocked())

	r.Status = StatusAwaitingSeanInput
	assert.True(t, r.IsBlocked())

	r.Status = StatusClosedWon
	r.SubmittedAt = &now
	assert.True(t, r.Submitted())
	assert.True(t, r.IsClosed())
}
