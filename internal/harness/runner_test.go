package harness

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gritforge/bidtrack/internal/bid"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func runScenarioFile(t *testing.T, name string) *Result {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	return result
}

func TestRun_FullLifecycleLost(t *testing.T) {
	result := runScenarioFile(t, "full_lifecycle_lost.yaml")
	assert.True(t, result.Passed, "failures: %v", result.Failures)

	r := result.Records["B-1"]
	require.NotNil(t, r)
	assert.Equal(t, bid.StatusClosedLost, r.Status)
	require.NotNil(t, r.Close)
	assert.Equal(t, "Apex Electric", r.Close.WinningSub)
	require.Len(t, r.GCResponseNotes, 1)
	assert.Equal(t, "[2025-03-12] Award decision next week", r.GCResponseNotes[0])
}

func TestRun_ClosedBidRejections(t *testing.T) {
	result := runScenarioFile(t, "closed_bid_rejections.yaml")
	assert.True(t, result.Passed, "failures: %v", result.Failures)
}

func TestRun_TransitionGuards(t *testing.T) {
	result := runScenarioFile(t, "transition_guards.yaml")
	assert.True(t, result.Passed, "failures: %v", result.Failures)
}

func TestRun_DailyReportGolden(t *testing.T) {
	result := runScenarioFile(t, "daily_report.yaml")
	assert.True(t, result.Passed, "failures: %v", result.Failures)
	require.NotEmpty(t, result.Report)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "daily-report", []byte(result.Report))
}

func TestRun_WrongExpectationFailsScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong-expectation",
		Description: "The runner reports mismatched statuses instead of erroring.",
		Bids: []BidSpec{{
			ID: "B-1", Project: "Warehouse", GC: "Clark",
			Estimator: "Dana", Email: "dana@clark.example",
			CreatedAt: mustTime(t, "2025-03-03T09:00:00Z"),
		}},
		Steps: []Step{{
			At:           mustTime(t, "2025-03-03T10:00:00Z"),
			Bid:          "B-1",
			Op:           OpSubmit,
			Proof:        "proof.pdf",
			ExpectStatus: "CLOSED_WON",
		}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "expected status CLOSED_WON")
}

func TestRun_ExpectedErrorThatSucceedsFailsScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "expected-error-missing",
		Description: "A step that should fail but succeeds fails the scenario.",
		Bids: []BidSpec{{
			ID: "B-1", Project: "Warehouse", GC: "Clark",
			Estimator: "Dana", Email: "dana@clark.example",
			CreatedAt: mustTime(t, "2025-03-03T09:00:00Z"),
		}},
		Steps: []Step{{
			At:          mustTime(t, "2025-03-03T10:00:00Z"),
			Bid:         "B-1",
			Op:          OpSubmit,
			Proof:       "proof.pdf",
			ExpectError: "INVALID_TRANSITION",
		}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Failures[0], "expected error INVALID_TRANSITION, got success")
}
