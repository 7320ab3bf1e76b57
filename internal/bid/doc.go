// Package bid defines the bid record data model: lifecycle statuses, the
// four-touchpoint follow-up ledger, the append-only audit log, and the
// serialized shape used by storage.
//
// Everything in this package is passive data plus pure read-only queries.
// Mutation happens only through the lifecycle package, which is the single
// writer for records, ledgers, and audit logs. Time-relative queries take
// "now" as an explicit argument; nothing here reads the wall clock.
package bid
