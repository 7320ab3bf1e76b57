// Package query answers "what needs attention now" across a collection of
// bid records. Every function is pure: inputs are never mutated, and the
// reference time is an explicit argument, so the whole package is a function
// of (records, now). Callers supply the collection; there is no ambient
// store or clock.
package query

import (
	"sort"
	"time"

	"github.com/gritforge/bidtrack/internal/bid"
)

// FollowUpItem pairs a ledger entry with the record it belongs to.
type FollowUpItem struct {
	Record *bid.Record
	Entry  *bid.FollowUpEntry
}

// BidsAwaitingSean returns records blocked on approver input, ordered by
// blocked deadline ascending with absent deadlines last.
func BidsAwaitingSean(records []*bid.Record) []*bid.Record {
	var out []*bid.Record
	for _, r := range records {
		if r.Status == bid.StatusAwaitingSeanInput {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := blockedDeadline(out[i]), blockedDeadline(out[j])
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return out
}

func blockedDeadline(r *bid.Record) *time.Time {
	if r.Blocked == nil {
		return nil
	}
	return r.Blocked.Deadline
}

// BidsReadyToSubmit returns records cleared for submission.
func BidsReadyToSubmit(records []*bid.Record) []*bid.Record {
	var out []*bid.Record
	for _, r := range records {
		if r.Status == bid.StatusReadyToSubmit {
			out = append(out, r)
		}
	}
	return out
}

// OverdueFollowUps returns every overdue (record, entry) pair across all
// non-closed records, most overdue first (earliest scheduled time first).
func OverdueFollowUps(records []*bid.Record, now time.Time) []FollowUpItem {
	var out []FollowUpItem
	for _, r := range records {
		if r.IsClosed() {
			continue
		}
		for i := range r.FollowUps {
			e := &r.FollowUps[i]
			if e.IsOverdue(now) {
				out = append(out, FollowUpItem{Record: r, Entry: e})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Entry.ScheduledAt.Before(out[j].Entry.ScheduledAt)
	})
	return out
}

// FollowUpsDueToday returns unsent (record, entry) pairs whose scheduled
// date equals now's date, across all non-closed records.
func FollowUpsDueToday(records []*bid.Record, now time.Time) []FollowUpItem {
	ny, nm, nd := now.Date()
	var out []FollowUpItem
	for _, r := range records {
		if r.IsClosed() {
			continue
		}
		for i := range r.FollowUps {
			e := &r.FollowUps[i]
			if e.IsComplete() {
				continue
			}
			sy, sm, sd := e.ScheduledAt.Date()
			if sy == ny && sm == nm && sd == nd {
				out = append(out, FollowUpItem{Record: r, Entry: e})
			}
		}
	}
	return out
}

// BidsNeedingClose returns non-closed, submitted records whose follow-up
// sequence is exhausted (all four sent) and that are stale: either the
// submission is at least daysThreshold days old, or the last touchpoint went
// out more than daysThreshold days ago.
func BidsNeedingClose(records []*bid.Record, now time.Time, daysThreshold int) []*bid.Record {
	var out []*bid.Record
	for _, r := range records {
		if r.IsClosed() || !r.Submitted() {
			continue
		}
		if bid.NextFollowUp(r) != nil {
			continue
		}

		days, _ := bid.DaysSinceSubmission(r, now)
		if days >= daysThreshold {
			out = append(out, r)
			continue
		}
		if last := lastSentAt(r); last != nil && now.Sub(*last) > time.Duration(daysThreshold)*24*time.Hour {
			out = append(out, r)
		}
	}
	return out
}

func lastSentAt(r *bid.Record) *time.Time {
	var last *time.Time
	for i := range r.FollowUps {
		if sent := r.FollowUps[i].SentAt; sent != nil {
			if last == nil || sent.After(*last) {
				last = sent
			}
		}
	}
	return last
}

// DailyReport packages every action query for a single pass over the
// collection. It holds no logic of its own; the report package renders it.
type DailyReport struct {
	AsOf          time.Time
	AwaitingSean  []*bid.Record
	ReadyToSubmit []*bid.Record
	Overdue       []FollowUpItem
	DueToday      []FollowUpItem
	NeedingClose  []*bid.Record
}

// DefaultCloseThresholdDays is the staleness cutoff for BidsNeedingClose
// when the driver does not supply one.
const DefaultCloseThresholdDays = 30

// BuildDailyReport runs all action queries against the collection.
func BuildDailyReport(records []*bid.Record, now time.Time, daysThreshold int) *DailyReport {
	return &DailyReport{
		AsOf:          now,
		AwaitingSean:  BidsAwaitingSean(records),
		ReadyToSubmit: BidsReadyToSubmit(records),
		Overdue:       OverdueFollowUps(records, now),
		DueToday:      FollowUpsDueToday(records, now),
		NeedingClose:  BidsNeedingClose(records, now, daysThreshold),
	}
}

// Empty reports whether the report contains no actionable items.
func (d *DailyReport) Empty() bool {
	return len(d.AwaitingSean) == 0 &&
		len(d.ReadyToSubmit) == 0 &&
		len(d.Overdue) == 0 &&
		len(d.DueToday) == 0 &&
		len(d.NeedingClose) == 0
}
