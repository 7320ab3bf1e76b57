package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios replay a timestamped sequence of lifecycle transitions against a
// fresh set of bids and assert on each step's outcome and the final state.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Bids declares the records the scenario creates before the first step.
	Bids []BidSpec `yaml:"bids"`

	// Steps is the transition sequence. Each step names its own timestamp,
	// so replays are fully deterministic.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state of each bid after all steps ran
	// and the records round-tripped through the store.
	Assertions []Assertion `yaml:"assertions"`

	// ReportAsOf, when set, renders the daily action report at that time.
	// The runner exposes the text for golden file comparison.
	ReportAsOf *time.Time `yaml:"report_as_of,omitempty"`
}

// BidSpec declares one record created at scenario start.
type BidSpec struct {
	ID        string     `yaml:"id"`
	Project   string     `yaml:"project"`
	GC        string     `yaml:"gc"`
	Estimator string     `yaml:"estimator"`
	Email     string     `yaml:"email"`
	Phone     string     `yaml:"phone,omitempty"`
	Platform  string     `yaml:"platform,omitempty"`
	DueAt     *time.Time `yaml:"due_at,omitempty"`
	CreatedAt time.Time  `yaml:"created_at"`
}

// Step is one lifecycle transition attempt.
type Step struct {
	// At is the reference time passed to the transition.
	At time.Time `yaml:"at"`

	// Bid names the target record by scenario id.
	Bid string `yaml:"bid"`

	// Op is the transition: block, ready, submit, receipt, followup_sent,
	// respond, close_won, close_lost, close_no_response.
	Op string `yaml:"op"`

	// Op-specific inputs.
	Question     string     `yaml:"question,omitempty"`
	Deadline     *time.Time `yaml:"deadline,omitempty"`
	Note         string     `yaml:"note,omitempty"`
	Proof        string     `yaml:"proof,omitempty"`
	Kind         string     `yaml:"kind,omitempty"`
	Category     string     `yaml:"category,omitempty"`
	Amount       float64    `yaml:"amount,omitempty"`
	Reason       string     `yaml:"reason,omitempty"`
	WinningSub   string     `yaml:"winning_sub,omitempty"`
	WinningPrice *float64   `yaml:"winning_price,omitempty"`

	// ExpectStatus, when set, asserts the bid's status after a successful
	// step.
	ExpectStatus string `yaml:"expect_status,omitempty"`

	// ExpectError, when set, asserts the step fails with this error code
	// (INVALID_TRANSITION, NOT_FOUND, ALREADY_COMPLETE,
	// INCOMPLETE_CLOSE_DATA). The record must be left untouched.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates one bid's final state.
type Assertion struct {
	Bid string `yaml:"bid"`

	// Status is the expected final status.
	Status string `yaml:"status,omitempty"`

	// AuditCount is the expected audit log length. Pointer so zero is a
	// real expectation, not an omitted one.
	AuditCount *int `yaml:"audit_count,omitempty"`

	// SentCount is the expected number of sent follow-ups.
	SentCount *int `yaml:"sent_count,omitempty"`

	// Blocked asserts presence or absence of the blocked sub-record.
	Blocked *bool `yaml:"blocked,omitempty"`

	// LastNote is the expected note on the final audit entry.
	LastNote string `yaml:"last_note,omitempty"`
}

// Step op constants.
const (
	OpBlock           = "block"
	OpReady           = "ready"
	OpSubmit          = "submit"
	OpReceipt         = "receipt"
	OpFollowUpSent    = "followup_sent"
	OpRespond         = "respond"
	OpCloseWon        = "close_won"
	OpCloseLost       = "close_lost"
	OpCloseNoResponse = "close_no_response"
)

var knownOps = map[string]bool{
	OpBlock:           true,
	OpReady:           true,
	OpSubmit:          true,
	OpReceipt:         true,
	OpFollowUpSent:    true,
	OpRespond:         true,
	OpCloseWon:        true,
	OpCloseLost:       true,
	OpCloseNoResponse: true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "step:" vs "steps:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Bids) == 0 {
		return fmt.Errorf("bids list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	seen := map[string]bool{}
	for i, b := range s.Bids {
		if b.ID == "" {
			return fmt.Errorf("bids[%d]: id is required", i)
		}
		if seen[b.ID] {
			return fmt.Errorf("bids[%d]: duplicate id %q", i, b.ID)
		}
		seen[b.ID] = true
		if b.Project == "" || b.GC == "" || b.Estimator == "" || b.Email == "" {
			return fmt.Errorf("bids[%d]: project, gc, estimator and email are required", i)
		}
		if b.CreatedAt.IsZero() {
			return fmt.Errorf("bids[%d]: created_at is required", i)
		}
	}

	for i, step := range s.Steps {
		if step.At.IsZero() {
			return fmt.Errorf("steps[%d]: at is required", i)
		}
		if step.Bid == "" {
			return fmt.Errorf("steps[%d]: bid is required", i)
		}
		if !seen[step.Bid] {
			return fmt.Errorf("steps[%d]: unknown bid %q", i, step.Bid)
		}
		if !knownOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.ExpectStatus != "" && step.ExpectError != "" {
			return fmt.Errorf("steps[%d]: expect_status and expect_error are mutually exclusive", i)
		}
	}

	for i, a := range s.Assertions {
		if a.Bid == "" {
			return fmt.Errorf("assertions[%d]: bid is required", i)
		}
		if !seen[a.Bid] {
			return fmt.Errorf("assertions[%d]: unknown bid %q", i, a.Bid)
		}
	}

	return nil
}
