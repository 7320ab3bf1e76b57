package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gritforge/bidtrack/internal/bid"
	"github.com/gritforge/bidtrack/internal/lifecycle"
	"github.com/gritforge/bidtrack/internal/query"
	"github.com/gritforge/bidtrack/internal/report"
	"github.com/gritforge/bidtrack/internal/store"
)

// Result holds the outcome of a scenario run.
type Result struct {
	Passed   bool
	Failures []string

	// Records is the final state of every bid, reloaded from the store so
	// assertions see what actually persisted.
	Records map[string]*bid.Record

	// Report is the rendered daily action report when the scenario asked
	// for one.
	Report string
}

func (r *Result) fail(format string, args ...any) {
	r.Passed = false
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Run executes a scenario against a fresh in-memory database.
//
// Execution flow:
// 1. Create the declared bids and persist them
// 2. Apply each step: load, transition, validate the expectation, save
// 3. Reload every bid from the store
// 4. Evaluate final-state assertions and render the report if requested
//
// A step that fails its transition with an expected error code passes; the
// runner additionally verifies the record was left byte-identical.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	result := &Result{Passed: true, Records: map[string]*bid.Record{}}

	records := map[string]*bid.Record{}
	for _, spec := range scenario.Bids {
		var opts []bid.Option
		if spec.Platform != "" {
			opts = append(opts, bid.WithPlatform(spec.Platform))
		}
		if spec.Phone != "" {
			opts = append(opts, bid.WithEstimatorPhone(spec.Phone))
		}
		if spec.DueAt != nil {
			opts = append(opts, bid.WithDueAt(*spec.DueAt))
		}
		r := bid.New(spec.ID, spec.Project, spec.GC, spec.Estimator, spec.Email, spec.CreatedAt, opts...)
		if err := st.SaveBid(ctx, r); err != nil {
			return nil, fmt.Errorf("save bid %s: %w", spec.ID, err)
		}
		records[spec.ID] = r
	}

	for i, step := range scenario.Steps {
		r := records[step.Bid]

		before, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: snapshot bid %s: %w", i, step.Bid, err)
		}

		applyErr := applyStep(r, step)

		if step.ExpectError != "" {
			if applyErr == nil {
				result.fail("steps[%d] (%s %s): expected error %s, got success", i, step.Op, step.Bid, step.ExpectError)
				continue
			}
			var te *lifecycle.TransitionError
			if !errors.As(applyErr, &te) {
				result.fail("steps[%d] (%s %s): expected %s, got untyped error: %v", i, step.Op, step.Bid, step.ExpectError, applyErr)
				continue
			}
			if string(te.Code) != step.ExpectError {
				result.fail("steps[%d] (%s %s): expected %s, got %s", i, step.Op, step.Bid, step.ExpectError, te.Code)
				continue
			}
			after, err := json.Marshal(r)
			if err != nil {
				return nil, fmt.Errorf("steps[%d]: snapshot bid %s: %w", i, step.Bid, err)
			}
			if string(before) != string(after) {
				result.fail("steps[%d] (%s %s): failed transition mutated the record", i, step.Op, step.Bid)
			}
			continue
		}

		if applyErr != nil {
			result.fail("steps[%d] (%s %s): unexpected error: %v", i, step.Op, step.Bid, applyErr)
			continue
		}
		if step.ExpectStatus != "" && string(r.Status) != step.ExpectStatus {
			result.fail("steps[%d] (%s %s): expected status %s, got %s", i, step.Op, step.Bid, step.ExpectStatus, r.Status)
		}
		if err := st.SaveBid(ctx, r); err != nil {
			return nil, fmt.Errorf("steps[%d]: save bid %s: %w", i, step.Bid, err)
		}
	}

	// Assertions run against the persisted state, not the in-memory one, so
	// a round-trip defect fails the scenario too.
	for id := range records {
		loaded, err := st.LoadBid(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reload bid %s: %w", id, err)
		}
		result.Records[id] = loaded
	}

	for i, a := range scenario.Assertions {
		checkAssertion(result, i, a, result.Records[a.Bid])
	}

	if scenario.ReportAsOf != nil {
		var all []*bid.Record
		for _, spec := range scenario.Bids {
			all = append(all, result.Records[spec.ID])
		}
		daily := query.BuildDailyReport(all, *scenario.ReportAsOf, query.DefaultCloseThresholdDays)
		result.Report = report.DailyReport(daily)
	}

	return result, nil
}

// applyStep dispatches one step to its lifecycle transition.
func applyStep(r *bid.Record, step Step) error {
	switch step.Op {
	case OpBlock:
		_, err := lifecycle.MarkAwaitingSean(r, step.Question, step.Deadline, step.At)
		return err
	case OpReady:
		return lifecycle.MarkReadyToSubmit(r, step.Note, step.At)
	case OpSubmit:
		_, err := lifecycle.MarkSubmitted(r, step.At, step.Proof, step.At)
		return err
	case OpReceipt:
		return lifecycle.MarkReceiptConfirmed(r, step.Note, step.At)
	case OpFollowUpSent:
		_, err := lifecycle.MarkFollowUpSent(r, bid.FollowUpKind(step.Kind), step.At)
		return err
	case OpRespond:
		return lifecycle.RecordGCResponse(r, bid.GCResponseKind(step.Category), step.Note, step.At)
	case OpCloseWon:
		return lifecycle.CloseWon(r, step.Amount, step.Note, step.At)
	case OpCloseLost:
		return lifecycle.CloseLost(r, bid.LossReason(step.Reason), step.WinningSub, step.WinningPrice, step.Note, step.At)
	case OpCloseNoResponse:
		return lifecycle.CloseNoResponse(r, step.Note, step.At)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// checkAssertion evaluates one final-state assertion.
func checkAssertion(result *Result, i int, a Assertion, r *bid.Record) {
	if r == nil {
		result.fail("assertions[%d]: bid %s not found after run", i, a.Bid)
		return
	}

	if a.Status != "" && string(r.Status) != a.Status {
		result.fail("assertions[%d] (%s): expected status %s, got %s", i, a.Bid, a.Status, r.Status)
	}
	if a.AuditCount != nil && len(r.Audit) != *a.AuditCount {
		result.fail("assertions[%d] (%s): expected %d audit entries, got %d", i, a.Bid, *a.AuditCount, len(r.Audit))
	}
	if a.SentCount != nil {
		sent := 0
		for j := range r.FollowUps {
			if r.FollowUps[j].SentAt != nil {
				sent++
			}
		}
		if sent != *a.SentCount {
			result.fail("assertions[%d] (%s): expected %d sent follow-ups, got %d", i, a.Bid, *a.SentCount, sent)
		}
	}
	if a.Blocked != nil {
		if got := r.Blocked != nil; got != *a.Blocked {
			result.fail("assertions[%d] (%s): expected blocked=%v, got %v", i, a.Bid, *a.Blocked, got)
		}
	}
	if a.LastNote != "" {
		if len(r.Audit) == 0 {
			result.fail("assertions[%d] (%s): expected last note %q, audit log is empty", i, a.Bid, a.LastNote)
		} else if got := r.Audit[len(r.Audit)-1].Note; got != a.LastNote {
			result.fail("assertions[%d] (%s): expected last note %q, got %q", i, a.Bid, a.LastNote, got)
		}
	}
}
