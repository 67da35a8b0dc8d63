// Package store provides the SQLite-backed generation ledger.
//
// Every generate run appends one row to the runs table:
//   - id: a UUIDv7 run identifier
//   - seq: a logical clock, assigned as max(seq)+1 inside the insert transaction
//   - namespace, source_dir and output_path of the run
//   - interface_hash and output_hash, the SHA-256 checksums of the canonical
//     interface and of the emitted module
//   - counts: construct counts as canonical JSON
//
// Ordering uses seq only, never wall time, so listing is deterministic:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
