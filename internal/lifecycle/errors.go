package lifecycle

import (
	"errors"
	"fmt"

	"github.com/gritforge/bidtrack/internal/bid"
)

// TransitionError reports a rejected transition. Failed transitions are
// all-or-nothing: the record, ledger, and audit log are untouched.
//
// The error carries enough context (bid id, attempted operation, current
// status) for callers to build an actionable message.
type TransitionError struct {
	// Code identifies the error category.
	Code TransitionErrorCode

	// Message is a human-readable description.
	Message string

	// BidID identifies the affected bid.
	BidID string

	// Op names the attempted transition.
	Op string

	// Status is the bid's status at the time of the attempt.
	Status bid.Status
}

// TransitionErrorCode categorizes transition failures.
type TransitionErrorCode string

const (
	// ErrCodeInvalidTransition indicates the transition is not legal from
	// the current status, or a precondition is unmet (for example,
	// submitting while still blocked).
	ErrCodeInvalidTransition TransitionErrorCode = "INVALID_TRANSITION"

	// ErrCodeNotFound indicates a referenced follow-up kind is absent from
	// the ledger. A submitted bid always carries all four kinds, so this
	// only occurs on unsubmitted bids.
	ErrCodeNotFound TransitionErrorCode = "NOT_FOUND"

	// ErrCodeAlreadyComplete indicates re-marking an already-sent
	// follow-up, or closing an already-closed bid.
	ErrCodeAlreadyComplete TransitionErrorCode = "ALREADY_COMPLETE"

	// ErrCodeIncompleteCloseData indicates a close attempt missing its
	// outcome-mandated fields.
	ErrCodeIncompleteCloseData TransitionErrorCode = "INCOMPLETE_CLOSE_DATA"
)

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.BidID != "" {
		return fmt.Sprintf("%s: %s (bid=%s, op=%s, status=%s)", e.Code, e.Message, e.BidID, e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
}

// IsInvalidTransition reports whether err is an INVALID_TRANSITION error.
// Uses errors.As to handle wrapped errors.
func IsInvalidTransition(err error) bool {
	return hasCode(err, ErrCodeInvalidTransition)
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsAlreadyComplete reports whether err is an ALREADY_COMPLETE error.
func IsAlreadyComplete(err error) bool {
	return hasCode(err, ErrCodeAlreadyComplete)
}

// IsIncompleteCloseData reports whether err is an INCOMPLETE_CLOSE_DATA error.
func IsIncompleteCloseData(err error) bool {
	return hasCode(err, ErrCodeIncompleteCloseData)
}

func hasCode(err error, code TransitionErrorCode) bool {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// newError builds a TransitionError with full record context.
func newError(code TransitionErrorCode, r *bid.Record, op, message string) *TransitionError {
	return &TransitionError{
		Code:    code,
		Message: message,
		BidID:   r.ID,
		Op:      op,
		Status:  r.Status,
	}
}
