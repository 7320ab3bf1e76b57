// Package harness replays YAML-defined transition scenarios against the real
// lifecycle and store packages.
//
// Each scenario runs in a fresh in-memory SQLite database. Steps carry their
// own timestamps, so a scenario is a pure function of its file: replaying it
// produces the same audit log, the same ledger, and the same daily report
// every time. That makes scenario output suitable for golden file comparison.
//
// Unlike a mock-based harness, failures here are real: a step either passes
// through the actual transition guards and persists, or fails with the typed
// error the scenario expects. Expected failures are additionally checked to
// leave the record byte-identical, which exercises the all-or-nothing
// contract end to end.
package harness
