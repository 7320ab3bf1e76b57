package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gritforge/bidtrack/internal/bid"
)

// ErrNotFound is returned when no bid with the requested id exists.
var ErrNotFound = errors.New("bid not found")

// LoadBid reconstructs a single record by id, including its follow-up ledger
// and audit log in their original order.
func (s *Store) LoadBid(ctx context.Context, id string) (*bid.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT bid_id, project_name, gc_company, estimator_name, estimator_email, estimator_phone,
		       platform, due_at, submitted_at, status, proof_ref,
		       blocked_question, blocked_deadline,
		       last_gc_response, gc_response_notes,
		       closed_at, loss_reason, winning_sub, winning_price, award_amount, close_notes,
		       created_at
		FROM bids
		WHERE bid_id = ?
	`, id)

	r, err := scanBid(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load bid %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load bid %s: %w", id, err)
	}

	if err := s.loadFollowUps(ctx, r); err != nil {
		return nil, fmt.Errorf("load bid %s: %w", id, err)
	}
	if err := s.loadAudit(ctx, r); err != nil {
		return nil, fmt.Errorf("load bid %s: %w", id, err)
	}
	return r, nil
}

// LoadAll returns every record ordered by creation time, then id. Intended
// for the action queries and daily report, which scan the whole book.
func (s *Store) LoadAll(ctx context.Context) ([]*bid.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bid_id, project_name, gc_company, estimator_name, estimator_email, estimator_phone,
		       platform, due_at, submitted_at, status, proof_ref,
		       blocked_question, blocked_deadline,
		       last_gc_response, gc_response_notes,
		       closed_at, loss_reason, winning_sub, winning_price, award_amount, close_notes,
		       created_at
		FROM bids
		ORDER BY created_at, bid_id
	`)
	if err != nil {
		return nil, fmt.Errorf("load all bids: %w", err)
	}
	defer rows.Close()

	var records []*bid.Record
	for rows.Next() {
		r, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("load all bids: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load all bids: %w", err)
	}

	for _, r := range records {
		if err := s.loadFollowUps(ctx, r); err != nil {
			return nil, fmt.Errorf("load bid %s: %w", r.ID, err)
		}
		if err := s.loadAudit(ctx, r); err != nil {
			return nil, fmt.Errorf("load bid %s: %w", r.ID, err)
		}
	}
	return records, nil
}

// scanner abstracts sql.Row and sql.Rows for scanBid.
type scanner interface {
	Scan(dest ...any) error
}

func scanBid(row scanner) (*bid.Record, error) {
	var (
		r               bid.Record
		status          string
		dueAt           sql.NullString
		submittedAt     sql.NullString
		blockedQuestion sql.NullString
		blockedDeadline sql.NullString
		lastResponse    string
		notesJSON       string
		closedAt        sql.NullString
		lossReason      string
		winningSub      string
		winningPrice    sql.NullFloat64
		awardAmount     sql.NullFloat64
		closeNotes      string
		createdAt       string
	)

	err := row.Scan(
		&r.ID, &r.ProjectName, &r.GCCompany, &r.EstimatorName, &r.EstimatorEmail, &r.EstimatorPhone,
		&r.Platform, &dueAt, &submittedAt, &status, &r.ProofRef,
		&blockedQuestion, &blockedDeadline,
		&lastResponse, &notesJSON,
		&closedAt, &lossReason, &winningSub, &winningPrice, &awardAmount, &closeNotes,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status, err = bid.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if r.DueAt, err = unmarshalTimePtr(dueAt); err != nil {
		return nil, err
	}
	if r.SubmittedAt, err = unmarshalTimePtr(submittedAt); err != nil {
		return nil, err
	}
	if r.CreatedAt, err = unmarshalTime(createdAt); err != nil {
		return nil, err
	}

	if blockedQuestion.Valid {
		deadline, err := unmarshalTimePtr(blockedDeadline)
		if err != nil {
			return nil, err
		}
		r.Blocked = &bid.BlockedInput{Question: blockedQuestion.String, Deadline: deadline}
	}

	if lastResponse != "" {
		r.LastGCResponse, err = bid.ParseGCResponseKind(lastResponse)
		if err != nil {
			return nil, err
		}
	}
	if r.GCResponseNotes, err = unmarshalNotes(notesJSON); err != nil {
		return nil, err
	}

	if closedAt.Valid {
		cr := bid.CloseRecord{
			WinningSub:   winningSub,
			WinningPrice: floatPtr(winningPrice),
			AwardAmount:  floatPtr(awardAmount),
			Notes:        closeNotes,
		}
		if cr.ClosedAt, err = unmarshalTime(closedAt.String); err != nil {
			return nil, err
		}
		if lossReason != "" {
			if cr.Reason, err = bid.ParseLossReason(lossReason); err != nil {
				return nil, err
			}
		}
		r.Close = &cr
	}

	return &r, nil
}

func (s *Store) loadFollowUps(ctx context.Context, r *bid.Record) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, scheduled_at, sent_at, gc_responded, response_note
		FROM followups
		WHERE bid_id = ?
		ORDER BY position
	`, r.ID)
	if err != nil {
		return fmt.Errorf("query followups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry       bid.FollowUpEntry
			kind        string
			scheduledAt string
			sentAt      sql.NullString
		)
		if err := rows.Scan(&kind, &scheduledAt, &sentAt, &entry.GCResponded, &entry.ResponseNote); err != nil {
			return fmt.Errorf("scan followup: %w", err)
		}
		if entry.Kind, err = bid.ParseFollowUpKind(kind); err != nil {
			return err
		}
		if entry.ScheduledAt, err = unmarshalTime(scheduledAt); err != nil {
			return err
		}
		if entry.SentAt, err = unmarshalTimePtr(sentAt); err != nil {
			return err
		}
		r.FollowUps = append(r.FollowUps, entry)
	}
	return rows.Err()
}

func (s *Store) loadAudit(ctx context.Context, r *bid.Record) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, status, note
		FROM audit_log
		WHERE bid_id = ?
		ORDER BY position
	`, r.ID)
	if err != nil {
		return fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entry  bid.AuditEntry
			ts     string
			status string
		)
		if err := rows.Scan(&ts, &status, &entry.Note); err != nil {
			return fmt.Errorf("scan audit entry: %w", err)
		}
		if entry.At, err = unmarshalTime(ts); err != nil {
			return err
		}
		if entry.Status, err = bid.ParseStatus(status); err != nil {
			return err
		}
		r.Audit = append(r.Audit, entry)
	}
	return rows.Err()
}
