// Package history keeps a SQLite ledger of published catalog releases.
//
// Each successful build appends one row carrying the run id, version
// label, content hash and row counts. Rows are read back in insertion
// order (seq ASC), so a rebuild on the same day shows up as a second
// row for the same version.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package history
