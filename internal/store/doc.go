// Package store is the persistence collaborator: it loads and saves bid
// records keyed by bid id and knows nothing about lifecycle rules.
//
// Serialization follows the shape defined on the bid types: timestamps as
// RFC 3339 text, enums as their stable names, ledger and audit order
// preserved via explicit positions. Saving then loading reproduces an
// identical record.
//
// The audit_log table is append-only. SaveBid inserts only the entries
// beyond the persisted count and refuses to save a record whose in-memory
// audit log is shorter than what is already on disk.
package store
