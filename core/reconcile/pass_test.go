package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ads-reconciler/core/database"
	"ads-reconciler/core/lock"
	"ads-reconciler/core/manifest"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fullManifest = `{"run_id":"r-full","generator":"gen","campaigns":[{"name":"Summer Sale"}],
		"ad_groups":[{"campaign_name":"Summer Sale","ad_group_name":"Shoes"}],
		"product_ads":[{"campaign_name":"Summer Sale","ad_group_name":"Shoes","sku":"SKU-1"}],
		"keywords":[{"campaign_name":"Summer Sale","ad_group_name":"Shoes","keyword_text":"running shoes","match_type":"exact","bid":0.9}]}`
	partialManifest = `{"run_id":"r-partial","generator":"gen","campaigns":[{"name":"Summer Sale"},{"name":"Winter"},{"name":"Autumn"}]}`
	brokenManifest  = `{"generator":"gen","campaigns":[{"name":"Summer Sale"}]}`
)

var passNow = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

type passFixture struct {
	repo   *snapshot.GormRepository
	store  *queue.FileStore
	runner *Runner
}

func newPassFixture(t *testing.T, publish bool) *passFixture {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, snapshot.Migrate(db))
	repo := snapshot.NewGormRepository(db)

	if publish {
		require.NoError(t, repo.Publish(context.Background(), &snapshot.Export{
			AccountID:    "acct-1",
			SnapshotDate: "2024-05-01",
			Campaigns: []snapshot.CampaignRow{
				{CampaignID: "C1", Name: "summer   sale"},
				{CampaignID: "C2", Name: "Winter"},
			},
			AdGroups: []snapshot.AdGroupRow{
				{AdGroupID: "AG1", CampaignID: "C1", Name: "Shoes"},
			},
			Targets: []snapshot.TargetRow{
				{TargetID: "T1", AdGroupID: "AG1", CampaignID: "C1", Expression: "running shoes", MatchType: "exact"},
			},
		}))
	}

	store, err := queue.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return &passFixture{
		repo:  repo,
		store: store,
		runner: &Runner{
			Store:     store,
			Snapshots: snapshot.NewLoader(repo, 0),
			AccountID: "acct-1",
			Now:       func() time.Time { return passNow },
		},
	}
}

func (f *passFixture) enqueue(t *testing.T, name, data string) {
	t.Helper()
	_, err := f.store.Enqueue(context.Background(), name, []byte(data))
	require.NoError(t, err)
}

func (f *passFixture) names(t *testing.T, state queue.State) []string {
	t.Helper()
	items, err := f.store.List(context.Background(), state)
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func TestRunner_RoutesEveryManifest(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t, true)
	f.enqueue(t, "full.json", fullManifest)
	f.enqueue(t, "partial.json", partialManifest)
	f.enqueue(t, "broken.json", brokenManifest)

	report, err := f.runner.Run(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", report.SnapshotDate)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Reconciled)
	assert.Equal(t, 1, report.Pending)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Skipped)

	assert.Equal(t, []string{"full.json"}, f.names(t, queue.StateReconciled))
	assert.Equal(t, []string{"partial.json"}, f.names(t, queue.StatePending))
	assert.Equal(t, []string{"broken.json"}, f.names(t, queue.StateFailed))

	t.Run("Result Sidecar", func(t *testing.T) {
		raw, err := f.store.ReadSidecar(ctx, queue.Item{Name: "full.json", State: queue.StateReconciled})
		require.NoError(t, err)

		var sidecar ResultSidecar
		require.NoError(t, json.Unmarshal(raw, &sidecar))
		assert.Equal(t, "r-full", sidecar.RunID)
		assert.Equal(t, "acct-1", sidecar.AccountID)
		assert.Equal(t, "2024-05-01", sidecar.SnapshotDate)
		assert.True(t, sidecar.MatchedAt.Equal(passNow))
		require.NotNil(t, sidecar.Matches)
		assert.True(t, sidecar.Matches.AllMatched)
		assert.Equal(t, 1, sidecar.Matches.ParentOnlyConfirmations)
	})

	t.Run("Failure Sidecar", func(t *testing.T) {
		raw, err := f.store.ReadSidecar(ctx, queue.Item{Name: "broken.json", State: queue.StateFailed})
		require.NoError(t, err)

		var sidecar FailureSidecar
		require.NoError(t, json.Unmarshal(raw, &sidecar))
		assert.Contains(t, sidecar.Error, "run_id")
	})

	t.Run("Partial Counts Reported", func(t *testing.T) {
		var partial *Decision
		for i := range report.Decisions {
			if report.Decisions[i].Name == "partial.json" {
				partial = &report.Decisions[i]
			}
		}
		require.NotNil(t, partial)
		assert.Equal(t, queue.StatePending, partial.Outcome)
		assert.Equal(t, Count{Expected: 3, Matched: 2}, partial.Counts.Campaigns)
	})
}

func TestRunner_PanicFailsOnlyThatManifest(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t, true)
	f.enqueue(t, "boom.json", `{"run_id":"r-boom","generator":"gen","campaigns":[{"name":"Winter"}]}`)
	f.enqueue(t, "broken.json", brokenManifest)
	f.enqueue(t, "full.json", fullManifest)

	reconcileManifest = func(m *manifest.Manifest, snap *snapshot.Snapshot) (*Result, error) {
		if m.RunID == "r-boom" {
			panic("index out of range")
		}
		return Reconcile(m, snap)
	}
	t.Cleanup(func() { reconcileManifest = Reconcile })

	report, err := f.runner.Run(ctx, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Reconciled)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, []string{"full.json"}, f.names(t, queue.StateReconciled))
	assert.Equal(t, []string{"boom.json", "broken.json"}, f.names(t, queue.StateFailed))
	assert.Empty(t, f.names(t, queue.StatePending))

	raw, err := f.store.ReadSidecar(ctx, queue.Item{Name: "boom.json", State: queue.StateFailed})
	require.NoError(t, err)
	var sidecar FailureSidecar
	require.NoError(t, json.Unmarshal(raw, &sidecar))
	assert.Contains(t, sidecar.Error, "index out of range")
	assert.NotEmpty(t, sidecar.Stack)

	raw, err = f.store.ReadSidecar(ctx, queue.Item{Name: "broken.json", State: queue.StateFailed})
	require.NoError(t, err)
	sidecar = FailureSidecar{}
	require.NoError(t, json.Unmarshal(raw, &sidecar))
	assert.Empty(t, sidecar.Stack)
}

func TestRunner_Idempotence(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t, true)
	f.enqueue(t, "full.json", fullManifest)
	f.enqueue(t, "partial.json", partialManifest)

	first, err := f.runner.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Transitions())

	second, err := f.runner.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Transitions())
	assert.Equal(t, 1, second.Scanned)
	assert.Equal(t, 1, second.Pending)
}

// countingStore records which manifests were read.
type countingStore struct {
	queue.Store
	mu    sync.Mutex
	reads map[string]int
}

func (s *countingStore) Read(ctx context.Context, item queue.Item) ([]byte, error) {
	s.mu.Lock()
	s.reads[item.Name]++
	s.mu.Unlock()
	return s.Store.Read(ctx, item)
}

func TestRunner_TerminalManifestsAreNeverReread(t *testing.T) {
	ctx := context.Background()
	f := newPassFixture(t, true)
	f.enqueue(t, "full.json", fullManifest)
	f.enqueue(t, "broken.json", brokenManifest)

	store := &countingStore{Store: f.store, reads: map[string]int{}}
	f.runner.Store = store

	for i := 0; i < 3; i++ {
		_, err := f.runner.Run(ctx, Options{})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, store.reads["full.json"])
	assert.Equal(t, 1, store.reads["broken.json"])
}

func TestRunner_DryRunMovesNothing(t *testing.T) {
	f := newPassFixture(t, true)
	f.enqueue(t, "full.json", fullManifest)
	f.enqueue(t, "broken.json", brokenManifest)

	report, err := f.runner.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Reconciled)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"broken.json", "full.json"}, f.names(t, queue.StatePending))
	assert.Empty(t, f.names(t, queue.StateReconciled))
}

func TestRunner_NoSnapshotMovesNothing(t *testing.T) {
	f := newPassFixture(t, false)
	f.enqueue(t, "broken.json", brokenManifest)

	_, err := f.runner.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, snapshot.ErrNoSnapshot)
	assert.Equal(t, []string{"broken.json"}, f.names(t, queue.StatePending))
}

type busyLocker struct{}

func (busyLocker) Obtain(ctx context.Context, key string) (lock.Lock, error) {
	return nil, lock.ErrNotObtained
}

func TestRunner_LockHeld(t *testing.T) {
	f := newPassFixture(t, true)
	f.enqueue(t, "full.json", fullManifest)
	f.runner.Locker = busyLocker{}

	_, err := f.runner.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, lock.ErrNotObtained)
	assert.Equal(t, []string{"full.json"}, f.names(t, queue.StatePending))
}

// racingStore simulates another pass claiming or breaking items.
type racingStore struct {
	queue.Store
	lost   map[string]bool
	broken map[string]bool
}

func (s *racingStore) Transition(ctx context.Context, item queue.Item, to queue.State, sidecar []byte) (queue.Item, error) {
	if s.lost[item.Name] {
		return queue.Item{}, queue.ErrNotFound
	}
	if s.broken[item.Name] {
		return queue.Item{}, errors.New("disk full")
	}
	return s.Store.Transition(ctx, item, to, sidecar)
}

func TestRunner_LostRaceIsSkipped(t *testing.T) {
	f := newPassFixture(t, true)
	f.enqueue(t, "a.json", fullManifest)
	f.enqueue(t, "b.json", brokenManifest)
	f.runner.Store = &racingStore{Store: f.store, lost: map[string]bool{"a.json": true}}

	report, err := f.runner.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Reconciled)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, report.Decisions[0].Skipped)
}

func TestRunner_StoreFailureKeepsProgress(t *testing.T) {
	f := newPassFixture(t, true)
	f.enqueue(t, "a.json", brokenManifest)
	f.enqueue(t, "b.json", fullManifest)
	f.enqueue(t, "c.json", fullManifest)
	f.runner.Store = &racingStore{Store: f.store, broken: map[string]bool{"b.json": true}}

	report, err := f.runner.Run(context.Background(), Options{})
	require.Error(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Reconciled)
	assert.Equal(t, 2, report.Pending)
	assert.Equal(t, []string{"a.json"}, f.names(t, queue.StateFailed))
	assert.Equal(t, []string{"b.json", "c.json"}, f.names(t, queue.StatePending))
}

func TestRunner_RequiresConfiguration(t *testing.T) {
	_, err := (&Runner{}).Run(context.Background(), Options{})
	assert.Error(t, err)

	f := newPassFixture(t, true)
	f.runner.AccountID = ""
	_, err = f.runner.Run(context.Background(), Options{})
	assert.Error(t, err)
}
