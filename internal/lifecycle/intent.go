package lifecycle

import "github.com/gritforge/bidtrack/internal/bid"

// IntentKind names a notification the caller should dispatch. The state
// machine only decides that a notification is due and which template
// applies; content generation belongs to the notify package, sending to
// the driver.
type IntentKind string

const (
	// IntentBlocked asks the approver to resolve a pre-submission blocker.
	IntentBlocked IntentKind = "blocked"

	// IntentSubmitted confirms a submission to the approver.
	IntentSubmitted IntentKind = "submitted"

	// IntentFollowUp is an outbound GC touchpoint; FollowUp carries which.
	IntentFollowUp IntentKind = "followup"
)

// Intent is a notification flagged as due by a successful transition.
type Intent struct {
	Kind IntentKind

	// FollowUp identifies the touchpoint for IntentFollowUp intents.
	FollowUp bid.FollowUpKind
}
