// Package store provides SQLite-backed run history for orderlens.
//
// Each analyze run records:
//   - Runs: source file signatures, row counts, revenue and run options
//   - KPI metrics: the ordered (metric, value) overview rows
//   - RFM records: one row per scored customer
//
// # Conventions
//
// Run ids are UUIDv7 strings and writes are idempotent on the id
// (ON CONFLICT DO NOTHING). Listing orders by seq, the insertion counter,
// never by wall-clock time. Amounts are stored as decimal TEXT so they
// round-trip exactly.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
