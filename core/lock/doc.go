// Package lock serializes reconciliation passes per account.
//
// RedisLocker holds a bsm/redislock lease in Redis so that passes started
// from different processes never overlap. When no Redis address is
// configured, New returns Noop and the queue backend is the only guard.
package lock
