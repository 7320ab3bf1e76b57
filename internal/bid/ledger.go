package bid

import "time"

// followUpOffsets is the fixed cadence: kind and whole-day offset from the
// submission time, in schedule order. The ledger is always created from this
// table as a batch of four.
var followUpOffsets = []struct {
	Kind FollowUpKind
	Days int
}{
	{FollowUpReceiptConfirmation, 2},
	{FollowUpStatusCheck, 7},
	{FollowUpValueTouch, 14},
	{FollowUpCloseoutRequest, 28},
}

// NewFollowUpSchedule derives the four-entry ledger from a submission time.
// Entries come back in schedule order, all unsent and unresponded. This is
// the only creation path for ledger entries.
func NewFollowUpSchedule(submittedAt time.Time) []FollowUpEntry {
	entries := make([]FollowUpEntry, 0, len(followUpOffsets))
	for _, o := range followUpOffsets {
		entries = append(entries, FollowUpEntry{
			Kind:        o.Kind,
			ScheduledAt: submittedAt.AddDate(0, 0, o.Days),
		})
	}
	return entries
}

// IsOverdue reports whether the touchpoint's scheduled time has passed
// without it being sent. A sent entry is never overdue, no matter how late
// it went out.
func (e *FollowUpEntry) IsOverdue(now time.Time) bool {
	return e.SentAt == nil && e.ScheduledAt.Before(now)
}

// IsComplete reports whether the touchpoint has been sent.
func (e *FollowUpEntry) IsComplete() bool {
	return e.SentAt != nil
}

// NextFollowUp returns the earliest-scheduled unsent entry, or nil if all
// four are sent (or the bid is unsubmitted). Ledger order and schedule order
// coincide, so the first unsent entry is the earliest.
func NextFollowUp(r *Record) *FollowUpEntry {
	for i := range r.FollowUps {
		if !r.FollowUps[i].IsComplete() {
			return &r.FollowUps[i]
		}
	}
	return nil
}

// FollowUpByKind returns the ledger entry of the given kind, or nil if the
// ledger has no such entry (always the case before submission).
func FollowUpByKind(r *Record, kind FollowUpKind) *FollowUpEntry {
	for i := range r.FollowUps {
		if r.FollowUps[i].Kind == kind {
			return &r.FollowUps[i]
		}
	}
	return nil
}

// DaysSinceSubmission returns the whole days elapsed between submission and
// now, rounded down. ok is false for unsubmitted bids.
func DaysSinceSubmission(r *Record, now time.Time) (days int, ok bool) {
	if r.SubmittedAt == nil {
		return 0, false
	}
	d := int(now.Sub(*r.SubmittedAt).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return d, true
}
