package snapshot

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheEntry is one loaded snapshot kept by a Loader.
type cacheEntry struct {
	snapshot *Snapshot
	built    time.Time
}

// Loader loads snapshots and optionally keeps them for a TTL.
//
// The latest published date is resolved on every call, so a cached view is
// only reused while it is still the latest one. Concurrent loads of the same
// account, date and kinds share a single backend load.
type Loader struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
}

// NewLoader creates a Loader. A zero ttl disables caching between calls.
func NewLoader(repo Repository, ttl time.Duration) *Loader {
	return &Loader{
		repo:    repo,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

// Repository returns the backend the loader reads from.
func (l *Loader) Repository() Repository {
	return l.repo
}

// GetOrLoad returns the latest published snapshot of the account.
func (l *Loader) GetOrLoad(ctx context.Context, accountID string, kinds ...Kind) (*Snapshot, error) {
	date, err := l.repo.LatestDate(ctx, accountID)
	if err != nil {
		return nil, err
	}

	key := cacheKey(accountID, date, kinds)

	// Fast path: fresh entry for the current date
	if snap, ok := l.lookup(key); ok {
		return snap, nil
	}

	result, err, _ := l.sf.Do(key, func() (interface{}, error) {
		// Double-check after winning the singleflight slot
		if snap, ok := l.lookup(key); ok {
			return snap, nil
		}

		snap, err := LoadDate(ctx, l.repo, accountID, date, kinds...)
		if err != nil {
			return nil, err
		}

		if l.ttl > 0 {
			l.mu.Lock()
			l.entries[key] = &cacheEntry{snapshot: snap, built: l.now()}
			l.mu.Unlock()
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

// Invalidate drops every cached snapshot of the account.
func (l *Loader) Invalidate(accountID string) {
	prefix := accountID + "|"
	l.mu.Lock()
	for key := range l.entries {
		if strings.HasPrefix(key, prefix) {
			delete(l.entries, key)
		}
	}
	l.mu.Unlock()
}

func (l *Loader) lookup(key string) (*Snapshot, bool) {
	if l.ttl == 0 {
		return nil, false
	}
	l.mu.RLock()
	entry, ok := l.entries[key]
	l.mu.RUnlock()
	if !ok || l.now().Sub(entry.built) > l.ttl {
		return nil, false
	}
	return entry.snapshot, true
}

// cacheKey builds "account|date|kind,kind" with kinds sorted.
func cacheKey(accountID, date string, kinds []Kind) string {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return accountID + "|" + date + "|" + strings.Join(names, ",")
}
