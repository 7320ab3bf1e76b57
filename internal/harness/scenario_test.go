package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalScenario = `
name: minimal
description: One bid submits.
bids:
  - id: B-1
    project: Warehouse
    gc: Clark
    estimator: Dana
    email: dana@clark.example
    created_at: 2025-03-03T09:00:00Z
steps:
  - at: 2025-03-03T10:00:00Z
    bid: B-1
    op: submit
    proof: proof.pdf
`

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenarioFile(t, minimalScenario)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Bids, 1)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, OpSubmit, s.Steps[0].Op)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo
description: Misspelled key.
bids:
  - id: B-1
    project: Warehouse
    gc: Clark
    estimator: Dana
    email: dana@clark.example
    created_at: 2025-03-03T09:00:00Z
step:
  - at: 2025-03-03T10:00:00Z
    bid: B-1
    op: submit
`)

	_, err := LoadScenario(path)
	require.Error(t, err, "strict decoding must catch step vs steps typos")
}

func TestLoadScenario_RejectsUnknownOp(t *testing.T) {
	path := writeScenarioFile(t, `
name: bad-op
description: Unknown op name.
bids:
  - id: B-1
    project: Warehouse
    gc: Clark
    estimator: Dana
    email: dana@clark.example
    created_at: 2025-03-03T09:00:00Z
steps:
  - at: 2025-03-03T10:00:00Z
    bid: B-1
    op: teleport
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown op")
}

func TestLoadScenario_RejectsUnknownBidReference(t *testing.T) {
	path := writeScenarioFile(t, `
name: dangling
description: Step targets an undeclared bid.
bids:
  - id: B-1
    project: Warehouse
    gc: Clark
    estimator: Dana
    email: dana@clark.example
    created_at: 2025-03-03T09:00:00Z
steps:
  - at: 2025-03-03T10:00:00Z
    bid: B-9
    op: submit
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown bid "B-9"`)
}

func TestLoadScenario_RejectsConflictingExpectations(t *testing.T) {
	path := writeScenarioFile(t, `
name: conflicting
description: A step cannot expect both success and failure.
bids:
  - id: B-1
    project: Warehouse
    gc: Clark
    estimator: Dana
    email: dana@clark.example
    created_at: 2025-03-03T09:00:00Z
steps:
  - at: 2025-03-03T10:00:00Z
    bid: B-1
    op: submit
    proof: proof.pdf
    expect_status: FOLLOWUP_ACTIVE
    expect_error: INVALID_TRANSITION
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
