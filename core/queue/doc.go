// Package queue implements the durable manifest queue.
//
// A manifest lives in exactly one of three states: pending, reconciled or
// failed. The only transitions are pending to reconciled and pending to
// failed, and each one moves the manifest together with an outcome sidecar
// (<name>.result.json or <name>.error.json) at the destination. Listing the
// pending state is the only way to discover work.
//
// # Backends
//
//   - FileStore: three directories under a base path. Moves are os.Rename
//     calls, so two processes racing on one item cannot both claim it; the
//     loser gets ErrNotFound.
//   - DBStore: one manifest_queue row per manifest. A transition is a
//     conditional UPDATE guarded by state = 'pending'.
//   - ObjectStore: keys <prefix>/<state>/<name> in an object storage bucket.
//     Copy then delete is not atomic, so concurrent passes must be serialized
//     with the pass lock.
package queue
