package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gritforge/bidtrack/internal/bid"
)

// SaveBid persists a record in a single transaction: the bid row is
// upserted, ledger entries are upserted at their fixed positions, and audit
// entries beyond the persisted count are appended. Existing audit rows are
// never touched; a record whose in-memory audit log is shorter than the
// persisted one is rejected.
func (s *Store) SaveBid(ctx context.Context, r *bid.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save bid: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	notesJSON, err := marshalNotes(r.GCResponseNotes)
	if err != nil {
		return fmt.Errorf("save bid %s: %w", r.ID, err)
	}

	var (
		blockedQuestion any
		blockedDeadline any
	)
	if r.Blocked != nil {
		blockedQuestion = r.Blocked.Question
		blockedDeadline = marshalTimePtr(r.Blocked.Deadline)
	}

	var (
		closedAt     any
		lossReason   string
		winningSub   string
		winningPrice any
		awardAmount  any
		closeNotes   string
	)
	if r.Close != nil {
		closedAt = marshalTime(r.Close.ClosedAt)
		lossReason = string(r.Close.Reason)
		winningSub = r.Close.WinningSub
		winningPrice = nullableFloat(r.Close.WinningPrice)
		awardAmount = nullableFloat(r.Close.AwardAmount)
		closeNotes = r.Close.Notes
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bids
		(bid_id, project_name, gc_company, estimator_name, estimator_email, estimator_phone,
		 platform, due_at, submitted_at, status, proof_ref,
		 blocked_question, blocked_deadline,
		 last_gc_response, gc_response_notes,
		 closed_at, loss_reason, winning_sub, winning_price, award_amount, close_notes,
		 created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bid_id) DO UPDATE SET
			project_name      = excluded.project_name,
			gc_company        = excluded.gc_company,
			estimator_name    = excluded.estimator_name,
			estimator_email   = excluded.estimator_email,
			estimator_phone   = excluded.estimator_phone,
			platform          = excluded.platform,
			due_at            = excluded.due_at,
			submitted_at      = excluded.submitted_at,
			status            = excluded.status,
			proof_ref         = excluded.proof_ref,
			blocked_question  = excluded.blocked_question,
			blocked_deadline  = excluded.blocked_deadline,
			last_gc_response  = excluded.last_gc_response,
			gc_response_notes = excluded.gc_response_notes,
			closed_at         = excluded.closed_at,
			loss_reason       = excluded.loss_reason,
			winning_sub       = excluded.winning_sub,
			winning_price     = excluded.winning_price,
			award_amount      = excluded.award_amount,
			close_notes       = excluded.close_notes
	`,
		r.ID, r.ProjectName, r.GCCompany, r.EstimatorName, r.EstimatorEmail, r.EstimatorPhone,
		r.Platform, marshalTimePtr(r.DueAt), marshalTimePtr(r.SubmittedAt), string(r.Status), r.ProofRef,
		blockedQuestion, blockedDeadline,
		string(r.LastGCResponse), notesJSON,
		closedAt, lossReason, winningSub, winningPrice, awardAmount, closeNotes,
		marshalTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save bid %s: upsert: %w", r.ID, err)
	}

	if err := writeFollowUps(ctx, tx, r); err != nil {
		return err
	}
	if err := appendAudit(ctx, tx, r); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save bid %s: commit: %w", r.ID, err)
	}
	return nil
}

// writeFollowUps upserts the ledger at fixed positions. Kind and scheduled
// time never change after creation; only the sent/responded fields update.
func writeFollowUps(ctx context.Context, tx *sql.Tx, r *bid.Record) error {
	for i := range r.FollowUps {
		e := &r.FollowUps[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO followups
			(bid_id, position, kind, scheduled_at, sent_at, gc_responded, response_note)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(bid_id, position) DO UPDATE SET
				sent_at       = excluded.sent_at,
				gc_responded  = excluded.gc_responded,
				response_note = excluded.response_note
		`,
			r.ID, i, string(e.Kind), marshalTime(e.ScheduledAt),
			marshalTimePtr(e.SentAt), e.GCResponded, e.ResponseNote,
		)
		if err != nil {
			return fmt.Errorf("save bid %s: followup %s: %w", r.ID, e.Kind, err)
		}
	}
	return nil
}

// appendAudit inserts audit entries beyond the persisted count.
func appendAudit(ctx context.Context, tx *sql.Tx, r *bid.Record) error {
	var persisted int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM audit_log WHERE bid_id = ?
	`, r.ID).Scan(&persisted)
	if err != nil {
		return fmt.Errorf("save bid %s: count audit: %w", r.ID, err)
	}

	if persisted > len(r.Audit) {
		return fmt.Errorf("save bid %s: audit log shrank (%d persisted, %d in memory): audit entries are append-only",
			r.ID, persisted, len(r.Audit))
	}

	for i := persisted; i < len(r.Audit); i++ {
		entry := r.Audit[i]
		_, err := tx.ExecContext(ctx, `
			INSERT INTO audit_log (bid_id, position, ts, status, note)
			VALUES (?, ?, ?, ?, ?)
		`,
			r.ID, i, marshalTime(entry.At), string(entry.Status), entry.Note,
		)
		if err != nil {
			return fmt.Errorf("save bid %s: append audit %d: %w", r.ID, i, err)
		}
	}
	return nil
}
