package bid

import "fmt"

// Status is the bid lifecycle state.
//
// Pre-submission a record is exactly one of AWAITING_SEAN_INPUT or
// READY_TO_SUBMIT - never both, never neither. Once submitted the record
// moves through the follow-up statuses and ends permanently in one of the
// three CLOSED_* states.
type Status string

const (
	// StatusAwaitingSeanInput marks a bid blocked on approver input.
	StatusAwaitingSeanInput Status = "AWAITING_SEAN_INPUT"

	// StatusReadyToSubmit marks a bid cleared for submission.
	StatusReadyToSubmit Status = "READY_TO_SUBMIT"

	// StatusSubmitted is the transient status logged at submission time.
	StatusSubmitted Status = "SUBMITTED"

	// StatusReceiptConfirmed marks that the GC confirmed receipt.
	StatusReceiptConfirmed Status = "RECEIPT_CONFIRMED"

	// StatusFollowUpActive marks a submitted bid with the follow-up
	// schedule running.
	StatusFollowUpActive Status = "FOLLOWUP_ACTIVE"

	// StatusGCResponseLogged marks that the GC responded at least once.
	StatusGCResponseLogged Status = "GC_RESPONSE_LOGGED"

	// Terminal outcomes. No transition ever leaves a CLOSED_* status.
	StatusClosedWon        Status = "CLOSED_WON"
	StatusClosedLost       Status = "CLOSED_LOST"
	StatusClosedNoResponse Status = "CLOSED_NO_RESPONSE"
)

// allStatuses lists every status in lifecycle order.
var allStatuses = []Status{
	StatusAwaitingSeanInput,
	StatusReadyToSubmit,
	StatusSubmitted,
	StatusReceiptConfirmed,
	StatusFollowUpActive,
	StatusGCResponseLogged,
	StatusClosedWon,
	StatusClosedLost,
	StatusClosedNoResponse,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Closed reports whether s is one of the terminal CLOSED_* statuses.
func (s Status) Closed() bool {
	return s == StatusClosedWon || s == StatusClosedLost || s == StatusClosedNoResponse
}

// PreSubmission reports whether s is one of the two pre-submission statuses.
func (s Status) PreSubmission() bool {
	return s == StatusAwaitingSeanInput || s == StatusReadyToSubmit
}

// ParseStatus converts a stable status name to a Status.
func ParseStatus(name string) (Status, error) {
	s := Status(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", name)
	}
	return s, nil
}

// FollowUpKind identifies one of the four scheduled touchpoints.
type FollowUpKind string

const (
	// FollowUpReceiptConfirmation is the day-2 "did you get it" touchpoint.
	FollowUpReceiptConfirmation FollowUpKind = "RECEIPT_CONFIRMATION"

	// FollowUpStatusCheck is the day-7 status inquiry.
	FollowUpStatusCheck FollowUpKind = "STATUS_CHECK"

	// FollowUpValueTouch is the day-14 value-add outreach.
	FollowUpValueTouch FollowUpKind = "VALUE_TOUCH"

	// FollowUpCloseoutRequest is the day-28 outcome request.
	FollowUpCloseoutRequest FollowUpKind = "CLOSEOUT_REQUEST"
)

// Valid reports whether k is a known follow-up kind.
func (k FollowUpKind) Valid() bool {
	switch k {
	case FollowUpReceiptConfirmation, FollowUpStatusCheck, FollowUpValueTouch, FollowUpCloseoutRequest:
		return true
	}
	return false
}

// ParseFollowUpKind converts a stable kind name to a FollowUpKind.
func ParseFollowUpKind(name string) (FollowUpKind, error) {
	k := FollowUpKind(name)
	if !k.Valid() {
		return "", fmt.Errorf("unknown follow-up kind %q", name)
	}
	return k, nil
}

// GCResponseKind categorizes a response from the general contractor.
type GCResponseKind string

const (
	GCResponseReviewing          GCResponseKind = "REVIEWING"
	GCResponseAwarded            GCResponseKind = "AWARDED"
	GCResponseNeedRevision       GCResponseKind = "NEED_REVISION"
	GCResponseScopeClarification GCResponseKind = "SCOPE_CLARIFICATION"
	GCResponseInviteToSubmit     GCResponseKind = "INVITE_TO_SUBMIT"
	GCResponseNoResponse         GCResponseKind = "NO_RESPONSE"
	GCResponseUnknown            GCResponseKind = "UNKNOWN"
)

// Valid reports whether k is a known GC response category.
func (k GCResponseKind) Valid() bool {
	switch k {
	case GCResponseReviewing, GCResponseAwarded, GCResponseNeedRevision,
		GCResponseScopeClarification, GCResponseInviteToSubmit,
		GCResponseNoResponse, GCResponseUnknown:
		return true
	}
	return false
}

// ParseGCResponseKind converts a stable category name to a GCResponseKind.
func ParseGCResponseKind(name string) (GCResponseKind, error) {
	k := GCResponseKind(name)
	if !k.Valid() {
		return "", fmt.Errorf("unknown GC response category %q", name)
	}
	return k, nil
}

// LossReason records why a bid was lost.
type LossReason string

const (
	LossPrice        LossReason = "PRICE"
	LossScope        LossReason = "SCOPE"
	LossSchedule     LossReason = "SCHEDULE"
	LossRelationship LossReason = "RELATIONSHIP"
	LossUnknown      LossReason = "UNKNOWN"
)

// Valid reports whether r is a known loss reason.
func (r LossReason) Valid() bool {
	switch r {
	case LossPrice, LossScope, LossSchedule, LossRelationship, LossUnknown:
		return true
	}
	return false
}

// ParseLossReason converts a stable reason name to a LossReason.
func ParseLossReason(name string) (LossReason, error) {
	r := LossReason(name)
	if !r.Valid() {
		return "", fmt.Errorf("unknown loss reason %q", name)
	}
	return r, nil
}
