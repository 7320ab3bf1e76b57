package bid

import "time"

// Record is one bid submission tracked from pre-submission approval through
// post-submission follow-up to final close.
//
// A Record owns its follow-up ledger and audit log exclusively. The lifecycle
// package is the only writer; everything else treats Records as read-only.
//
// Serialization: the JSON tags below define the persisted shape. Timestamps
// marshal as RFC 3339, enums as their stable names, and the ledger and audit
// lists keep their order, so serialize-then-deserialize reproduces an
// identical record.
type Record struct {
	// Identity.
	ID             string `json:"bid_id"`
	ProjectName    string `json:"project_name"`
	GCCompany      string `json:"gc_company"`
	EstimatorName  string `json:"estimator_name"`
	EstimatorEmail string `json:"estimator_email"`
	EstimatorPhone string `json:"estimator_phone,omitempty"`

	// Platform is the channel the bid goes out on
	// (PlanHub / ConstructConnect / Email).
	Platform string `json:"platform"`

	// Timeline. Both are unset until known.
	DueAt       *time.Time `json:"due_at,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`

	Status Status `json:"status"`

	// ProofRef points at submission evidence (filepath, screenshot,
	// confirmation number). Set by the submission transition.
	ProofRef string `json:"submission_proof_ref,omitempty"`

	// Blocked is present only while status is AWAITING_SEAN_INPUT.
	Blocked *BlockedInput `json:"blocked,omitempty"`

	// FollowUps is the ledger: exactly four entries for a submitted bid,
	// empty before submission. Created atomically at submission, never
	// added to singly, never deleted, never reordered.
	FollowUps []FollowUpEntry `json:"followups"`

	// LastGCResponse is the most recent response category, if any.
	LastGCResponse GCResponseKind `json:"last_gc_response,omitempty"`

	// GCResponseNotes accumulates date-stamped free-text response notes
	// in chronological order.
	GCResponseNotes []string `json:"gc_response_notes,omitempty"`

	// Close is present only once the bid reaches a CLOSED_* status.
	Close *CloseRecord `json:"close,omitempty"`

	// Audit is the append-only transition history. Every successful
	// transition appends exactly one entry; nothing ever edits or
	// removes one.
	Audit []AuditEntry `json:"audit_log"`

	CreatedAt time.Time `json:"created_at"`
}

// BlockedInput is the question holding up submission and its deadline.
type BlockedInput struct {
	Question string     `json:"question"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// FollowUpEntry is one scheduled touchpoint in a bid's ledger.
type FollowUpEntry struct {
	Kind        FollowUpKind `json:"kind"`
	ScheduledAt time.Time    `json:"scheduled_at"`

	// SentAt is unset until the touchpoint is marked sent.
	SentAt *time.Time `json:"sent_at,omitempty"`

	// GCResponded records whether the GC answered this touchpoint.
	GCResponded  bool   `json:"gc_responded"`
	ResponseNote string `json:"response_note,omitempty"`
}

// AuditEntry is one immutable line of transition history.
type AuditEntry struct {
	At     time.Time `json:"ts"`
	Status Status    `json:"status"`
	Note   string    `json:"note"`
}

// CloseRecord holds the terminal outcome data. Which fields are populated
// depends on the outcome: won sets AwardAmount, lost sets Reason (and
// optionally WinningSub/WinningPrice), no-response sets only Notes.
type CloseRecord struct {
	ClosedAt     time.Time  `json:"closed_at"`
	Reason       LossReason `json:"loss_reason,omitempty"`
	WinningSub   string     `json:"winning_sub,omitempty"`
	WinningPrice *float64   `json:"winning_price,omitempty"`
	AwardAmount  *float64   `json:"award_amount,omitempty"`
	Notes        string     `json:"close_notes,omitempty"`
}

// Option configures optional fields on a new Record.
type Option func(*Record)

// WithPlatform sets the submission channel.
func WithPlatform(platform string) Option {
	return func(r *Record) { r.Platform = platform }
}

// WithDueAt sets the bid due time.
func WithDueAt(due time.Time) Option {
	return func(r *Record) { r.DueAt = &due }
}

// WithEstimatorPhone sets the estimator's phone number.
func WithEstimatorPhone(phone string) Option {
	return func(r *Record) { r.EstimatorPhone = phone }
}

// New creates a Record in READY_TO_SUBMIT with an empty ledger and audit log.
// Creation is construction, not a transition: it writes no audit entry.
// Use lifecycle.MarkAwaitingSean to start a bid in the blocked state.
func New(id, projectName, gcCompany, estimatorName, estimatorEmail string, now time.Time, opts ...Option) *Record {
	r := &Record{
		ID:             id,
		ProjectName:    projectName,
		GCCompany:      gcCompany,
		EstimatorName:  estimatorName,
		EstimatorEmail: estimatorEmail,
		Platform:       "Email",
		Status:         StatusReadyToSubmit,
		CreatedAt:      now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submitted reports whether the bid has been submitted.
func (r *Record) Submitted() bool {
	return r.SubmittedAt != nil
}

// IsClosed reports whether the bid is in a terminal status.
func (r *Record) IsClosed() bool {
	return r.Status.Closed()
}

// IsBlocked reports whether the bid is awaiting approver input.
func (r *Record) IsBlocked() bool {
	return r.Status == StatusAwaitingSeanInput
}
