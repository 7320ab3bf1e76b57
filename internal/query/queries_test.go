package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func makeBid(t *testing.T, id, project string) *bid.Record {
	t.Helper()
	return bid.New(id, project, "Turner Construction", "Mike Chen", "mike@turner.example", t0)
}

func makeSubmittedBid(t *testing.T, id, project string, submittedAt time.Time) *bid.Record {
	t.Helper()
	r := makeBid(t, id, project)
	_, err := lifecycle.MarkSubmitted(r, submittedAt, "proof.png", submittedAt)
	require.NoError(t, err)
	return r
}

func TestBidsAwaitingSean_SortsByDeadline(t *testing.T) {
	late := makeBid(t, "B-1", "Warehouse")
	lateDeadline := t0.AddDate(0, 0, 5)
	_, err := lifecycle.MarkAwaitingSean(late, "Bond?", &lateDeadline, t0)
	require.NoError(t, err)

	soon := makeBid(t, "B-2", "Clinic")
	soonDeadline := t0.AddDate(0, 0, 1)
	_, err = lifecycle.MarkAwaitingSean(soon, "Scope?", &soonDeadline, t0)
	require.NoError(t, err)

	noDeadline := makeBid(t, "B-3", "School")
	_, err = lifecycle.MarkAwaitingSean(noDeadline, "Alternates?", nil, t0)
	require.NoError(t, err)

	ready := makeBid(t, "B-4", "Office")

	got := BidsAwaitingSean([]*bid.Record{late, ready, noDeadline, soon})
	require.Len(t, got, 3)
	assert.Equal(t, "B-2", got[0].ID, "earliest deadline first")
	assert.Equal(t, "B-1", got[1].ID)
	assert.Equal(t, "B-3", got[2].ID, "absent deadline sorts last")
}

func TestBidsReadyToSubmit(t *testing.T) {
	ready := makeBid(t, "B-1", "Warehouse")
	submitted := makeSubmittedBid(t, "B-2", "Clinic", t0)

	got := BidsReadyToSubmit([]*bid.Record{ready, submitted})
	require.Len(t, got, 1)
	assert.Equal(t, "B-1", got[0].ID)
}

func TestOverdueFollowUps_OrdersByScheduledTime(t *testing.T) {
	older := makeSubmittedBid(t, "B-1", "Warehouse", t0.AddDate(0, 0, -20))
	newer := makeSubmittedBid(t, "B-2", "Clinic", t0.AddDate(0, 0, -10))

	now := t0.Add(time.Hour)
	got := OverdueFollowUps([]*bid.Record{newer, older}, now)

	// B-1 submitted 20 days ago: day-2, day-7 and day-14 are overdue.
	// B-2 submitted 10 days ago: day-2 and day-7 are overdue.
	require.Len(t, got, 5)
	assert.Equal(t, "B-1", got[0].Record.ID)
	assert.Equal(t, bid.FollowUpReceiptConfirmation, got[0].Entry.Kind)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Entry.ScheduledAt.Before(got[i-1].Entry.ScheduledAt),
			"items must come back earliest-scheduled first")
	}
}

func TestOverdueFollowUps_SkipsClosedBids(t *testing.T) {
	r := makeSubmittedBid(t, "B-1", "Warehouse", t0.AddDate(0, 0, -20))
	require.NoError(t, lifecycle.CloseNoResponse(r, "", t0))

	got := OverdueFollowUps([]*bid.Record{r}, t0.Add(time.Hour))
	assert.Empty(t, got, "closed bids carry no pending work")
}

func TestFollowUpsDueToday_MatchesByDate(t *testing.T) {
	r := makeSubmittedBid(t, "B-1", "Warehouse", t0)

	// The day-7 touchpoint is scheduled for March 10 at 09:00. Any clock
	// reading on March 10 counts as due today, not just after 09:00.
	now := time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC)
	got := FollowUpsDueToday([]*bid.Record{r}, now)
	require.Len(t, got, 1)
	assert.Equal(t, bid.FollowUpStatusCheck, got[0].Entry.Kind)

	// Nothing is scheduled for March 11.
	got = FollowUpsDueToday([]*bid.Record{r}, now.AddDate(0, 0, 1))
	assert.Empty(t, got)
}

func TestFollowUpsDueToday_IncludesStillUnsentEntries(t *testing.T) {
	r := makeSubmittedBid(t, "B-1", "Warehouse", t0)

	// The day-2 entry was never sent. On its scheduled date it is due; it
	// then ages into the overdue bucket, not out of existence.
	onSchedule := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	got := FollowUpsDueToday([]*bid.Record{r}, onSchedule)
	require.Len(t, got, 1)
	assert.Equal(t, bid.FollowUpReceiptConfirmation, got[0].Entry.Kind)
}

func TestBidsNeedingClose(t *testing.T) {
	now := t0.AddDate(0, 0, 35)

	stale := makeSubmittedBid(t, "B-1", "Warehouse", t0)
	for _, kind := range []bid.FollowUpKind{
		bid.FollowUpReceiptConfirmation, bid.FollowUpStatusCheck,
		bid.FollowUpValueTouch, bid.FollowUpCloseoutRequest,
	} {
		entry := bid.FollowUpByKind(stale, kind)
		_, err := lifecycle.MarkFollowUpSent(stale, kind, entry.ScheduledAt)
		require.NoError(t, err)
	}

	// Same age but with an unsent touchpoint left: not a close candidate.
	incomplete := makeSubmittedBid(t, "B-2", "Clinic", t0)

	// Fresh bid with its schedule still running.
	fresh := makeSubmittedBid(t, "B-3", "School", now.AddDate(0, 0, -5))

	got := BidsNeedingClose([]*bid.Record{stale, incomplete, fresh}, now, DefaultCloseThresholdDays)
	require.Len(t, got, 1)
	assert.Equal(t, "B-1", got[0].ID)
}

// Day-9 check: a bid submitted nine days ago with only the first touchpoint
// sent shows exactly its day-7 entry as overdue, and the daily report puts it
// in the overdue section alone.
func TestDailyReport_DayNine(t *testing.T) {
	r := makeSubmittedBid(t, "B-1", "Riverside Medical Office", t0)
	_, err := lifecycle.MarkFollowUpSent(r, bid.FollowUpReceiptConfirmation, t0.AddDate(0, 0, 2))
	require.NoError(t, err)

	now := t0.AddDate(0, 0, 9)
	daily := BuildDailyReport([]*bid.Record{r}, now, DefaultCloseThresholdDays)

	assert.Empty(t, daily.AwaitingSean)
	assert.Empty(t, daily.ReadyToSubmit)
	assert.Empty(t, daily.DueToday)
	assert.Empty(t, daily.NeedingClose)

	require.Len(t, daily.Overdue, 1)
	assert.Equal(t, bid.FollowUpStatusCheck, daily.Overdue[0].Entry.Kind)
	assert.Equal(t, "B-1", daily.Overdue[0].Record.ID)
	assert.False(t, daily.Empty())
}

func TestDailyReport_Empty(t *testing.T) {
	daily := BuildDailyReport(nil, t0, DefaultCloseThresholdDays)
	assert.True(t, daily.Empty())
	assert.Equal(t, t0, daily.AsOf)
}

func TestQueries_DoNotMutateInput(t *testing.T) {
	r := makeSubmittedBid(t, "B-1", "Warehouse", t0.AddDate(0, 0, -20))
	records := []*bid.Record{r}

	auditLen := len(r.Audit)
	BuildDailyReport(records, t0, DefaultCloseThresholdDays)

	assert.Len(t, r.Audit, auditLen)
	assert.Nil(t, r.FollowUps[0].SentAt)
}
