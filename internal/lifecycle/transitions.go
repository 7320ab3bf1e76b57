// Package lifecycle is the bid state machine: one operation per legal
// transition, each validating its guards against the current record and
// either mutating the record in place (status, relevant fields, exactly one
// new audit entry) or failing with a typed *TransitionError.
//
// Transitions are all-or-nothing. Guards run before any mutation, so a
// failed call leaves the record, ledger, and audit log byte-identical.
//
// Thread-safety model: operations on a single record must be serialized by
// the caller (one exclusive critical section per bid id) - a transition
// reads and writes several fields plus the ledger and audit log as one unit.
// Records are independent of each other; transitions on different records
// may run in parallel with no shared state. "now" is always supplied by the
// caller; nothing here reads the wall clock.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/gritforge/bidtrack/internal/bid"
)

// logStatus applies the resulting status and appends the single audit entry
// for a successful transition. Callers must have validated all guards first.
func logStatus(r *bid.Record, status bid.Status, note string, now time.Time) {
	r.Status = status
	r.Audit = append(r.Audit, bid.AuditEntry{At: now, Status: status, Note: note})
}

// MarkAwaitingSean blocks a pre-submission bid on an approver question.
// Legal from either pre-submission status. Returns the "blocked"
// notification intent for the caller to dispatch.
func MarkAwaitingSean(r *bid.Record, question string, deadline *time.Time, now time.Time) (Intent, error) {
	const op = "mark_awaiting_sean"

	if !r.Status.PreSubmission() {
		return Intent{}, newError(ErrCodeInvalidTransition, r, op, "cannot block after submission")
	}
	if question == "" {
		return Intent{}, newError(ErrCodeInvalidTransition, r, op, "blocking question is required")
	}

	r.Blocked = &bid.BlockedInput{Question: question, Deadline: deadline}
	logStatus(r, bid.StatusAwaitingSeanInput, fmt.Sprintf("Blocked: %s", question), now)
	return Intent{Kind: IntentBlocked}, nil
}

// MarkReadyToSubmit clears a blocker and marks the bid ready. Legal from
// AWAITING_SEAN_INPUT, and from READY_TO_SUBMIT itself (re-marking a ready
// bid succeeds and is audit-logged like any other transition).
func MarkReadyToSubmit(r *bid.Record, note string, now time.Time) error {
	const op = "mark_ready_to_submit"

	if !r.Status.PreSubmission() {
		return newError(ErrCodeInvalidTransition, r, op, "cannot mark ready after submission")
	}
	if note == "" {
		note = "Ready to submit"
	}

	r.Blocked = nil
	logStatus(r, bid.StatusReadyToSubmit, note, now)
	return nil
}

// MarkSubmitted records the submission and atomically generates the
// four-entry follow-up ledger. Legal only from READY_TO_SUBMIT with no
// blocker present. Returns the "submitted" notification intent.
func MarkSubmitted(r *bid.Record, submittedAt time.Time, proofRef string, now time.Time) (Intent, error) {
	const op = "mark_submitted"

	if r.Status != bid.StatusReadyToSubmit {
		return Intent{}, newError(ErrCodeInvalidTransition, r, op, "only a READY_TO_SUBMIT bid can be submitted")
	}
	if r.Blocked != nil {
		return Intent{}, newError(ErrCodeInvalidTransition, r, op, "bid is still blocked on approver input")
	}

	r.SubmittedAt = &submittedAt
	r.ProofRef = proofRef
	r.FollowUps = bid.NewFollowUpSchedule(submittedAt)
	logStatus(r, bid.StatusFollowUpActive,
		fmt.Sprintf("Submitted with proof: %s; follow-up schedule initialized (%d touchpoints)", proofRef, len(r.FollowUps)),
		now)
	return Intent{Kind: IntentSubmitted}, nil
}

// MarkReceiptConfirmed records that the GC confirmed receipt.
// Legal once submitted, before close.
func MarkReceiptConfirmed(r *bid.Record, note string, now time.Time) error {
	const op = "mark_receipt_confirmed"

	if r.IsClosed() {
		return newError(ErrCodeInvalidTransition, r, op, "bid is closed")
	}
	if !r.Submitted() {
		return newError(ErrCodeInvalidTransition, r, op, "cannot confirm receipt before submission")
	}
	if note == "" {
		note = "GC confirmed receipt"
	}

	logStatus(r, bid.StatusReceiptConfirmed, note, now)
	return nil
}

// MarkFollowUpSent stamps the ledger entry of the given kind as sent at now.
// Legal once submitted, before close. Returns the follow-up notification
// intent so the caller can render and dispatch the matching message.
//
// Closed bids accept no further ledger mutation: a late touchpoint after
// close must not resurrect the schedule.
func MarkFollowUpSent(r *bid.Record, kind bid.FollowUpKind, now time.Time) (Intent, error) {
	const op = "mark_followup_sent"

	if r.IsClosed() {
		return Intent{}, newError(ErrCodeInvalidTransition, r, op, "closed bids accept no further ledger mutation")
	}
	entry := bid.FollowUpByKind(r, kind)
	if entry == nil {
		return Intent{}, newError(ErrCodeNotFound, r, op, fmt.Sprintf("no ledger entry of kind %s", kind))
	}
	if entry.IsComplete() {
		return Intent{}, newError(ErrCodeAlreadyComplete, r, op, fmt.Sprintf("follow-up %s already sent", kind))
	}

	sent := now
	entry.SentAt = &sent
	logStatus(r, bid.StatusFollowUpActive, fmt.Sprintf("Follow-up sent: %s", kind), now)
	return Intent{Kind: IntentFollowUp, FollowUp: kind}, nil
}

// RecordGCResponse logs a response from the GC: appends a date-stamped note,
// updates the last-known category, and marks the most recently sent (not yet
// responded) touchpoint as responded. Legal once submitted, before close.
func RecordGCResponse(r *bid.Record, category bid.GCResponseKind, note string, now time.Time) error {
	const op = "record_gc_response"

	if r.IsClosed() {
		return newError(ErrCodeInvalidTransition, r, op, "bid is closed")
	}
	if !r.Submitted() {
		return newError(ErrCodeInvalidTransition, r, op, "cannot record GC response before submission")
	}
	if !category.Valid() {
		return newError(ErrCodeInvalidTransition, r, op, fmt.Sprintf("unknown response category %q", category))
	}

	r.LastGCResponse = category
	r.GCResponseNotes = append(r.GCResponseNotes, fmt.Sprintf("[%s] %s", now.Format("2006-01-02"), note))

	if entry := lastSentUnresponded(r); entry != nil {
		entry.GCResponded = true
		entry.ResponseNote = note
	}

	logStatus(r, bid.StatusGCResponseLogged, fmt.Sprintf("%s: %s", category, note), now)
	return nil
}

// lastSentUnresponded returns the ledger entry with the latest sent time
// that has not yet been marked responded, or nil.
func lastSentUnresponded(r *bid.Record) *bid.FollowUpEntry {
	var latest *bid.FollowUpEntry
	for i := range r.FollowUps {
		e := &r.FollowUps[i]
		if e.SentAt == nil || e.GCResponded {
			continue
		}
		if latest == nil || e.SentAt.After(*latest.SentAt) {
			latest = e
		}
	}
	return latest
}

// closeGuard validates the shared preconditions for all closing transitions.
func closeGuard(r *bid.Record, op string) error {
	if r.IsClosed() {
		return newError(ErrCodeAlreadyComplete, r, op, "bid already closed")
	}
	if !r.Submitted() {
		return newError(ErrCodeInvalidTransition, r, op, "cannot close before submission")
	}
	return nil
}

// CloseWon closes the bid as won. The award amount is mandatory.
func CloseWon(r *bid.Record, awardAmount float64, note string, now time.Time) error {
	const op = "close_bid_won"

	if err := closeGuard(r, op); err != nil {
		return err
	}
	if awardAmount <= 0 {
		return newError(ErrCodeIncompleteCloseData, r, op, "award amount is required")
	}

	r.Close = &bid.CloseRecord{ClosedAt: now, AwardAmount: &awardAmount, Notes: note}
	logStatus(r, bid.StatusClosedWon, fmt.Sprintf("WON at $%.2f", awardAmount), now)
	return nil
}

// CloseLost closes the bid as lost. The loss reason is mandatory; the
// winning sub and winning price are optional enrichments.
func CloseLost(r *bid.Record, reason bid.LossReason, winningSub string, winningPrice *float64, note string, now time.Time) error {
	const op = "close_bid_lost"

	if err := closeGuard(r, op); err != nil {
		return err
	}
	if !reason.Valid() {
		return newError(ErrCodeIncompleteCloseData, r, op, "loss reason is required")
	}

	r.Close = &bid.CloseRecord{
		ClosedAt:     now,
		Reason:       reason,
		WinningSub:   winningSub,
		WinningPrice: winningPrice,
		Notes:        note,
	}

	detail := string(reason)
	if winningSub != "" {
		detail += fmt.Sprintf(" (lost to %s)", winningSub)
	}
	if winningPrice != nil {
		detail += fmt.Sprintf(" at $%.2f", *winningPrice)
	}
	logStatus(r, bid.StatusClosedLost, fmt.Sprintf("LOST: %s", detail), now)
	return nil
}

// CloseNoResponse closes the bid after the GC never responded.
// The note is optional.
func CloseNoResponse(r *bid.Record, note string, now time.Time) error {
	const op = "close_bid_no_response"

	if err := closeGuard(r, op); err != nil {
		return err
	}
	if note == "" {
		note = "GC never responded after full follow-up sequence"
	}

	r.Close = &bid.CloseRecord{ClosedAt: now, Notes: note}
	logStatus(r, bid.StatusClosedNoResponse, note, now)
	return nil
}
