// Package integrity provides health checks of the reconciler's own state.
//
// # Checks Provided
//
//   - Schema: compares the snapshot and queue tables with the live database
//     schema (missing tables and columns). Supports ?fix=true to migrate.
//   - Queue: counts manifests per state and lists terminal manifests whose
//     result or error sidecar is missing.
//   - Snapshot: reports the latest published snapshot date of the account
//     and its age in days.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true).
//   - GET /integrity/queue : Runs the queue check.
//   - GET /integrity/snapshot : Runs the snapshot check.
package integrity
