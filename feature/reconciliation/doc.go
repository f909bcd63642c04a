// Package reconciliation exposes the reconciliation pass and the manifest
// queue over HTTP.
//
// # Routes
//
//   - POST /reconciliation/run: runs one pass. dry_run=true plans without moving anything.
//   - GET /reconciliation/queue: number of manifests per state.
//   - GET /reconciliation/queue/:state: manifests in one state.
//   - GET /reconciliation/queue/:state/:name: one manifest and its sidecar.
//
// A pass that finds the account lock held answers 409. An account without a
// published snapshot answers 404 and nothing moves.
package reconciliation
