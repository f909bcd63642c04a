package checks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ads-reconciler/core/database"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func TestCheckSchema(t *testing.T) {
	db := memoryDB(t)

	report, err := CheckSchema(db, &queue.Entry{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Equal(t, "sqlite", report.Driver)
	require.Len(t, report.Drift, 1)
	assert.True(t, report.Drift[0].MissingTable)

	require.NoError(t, FixSchema(db, &queue.Entry{}))

	report, err = CheckSchema(db, &queue.Entry{})
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Empty(t, report.Drift)

	_, err = CheckSchema(nil)
	assert.Error(t, err)
}

func TestCheckQueue(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	store, err := queue.NewFileStore(base)
	require.NoError(t, err)

	for _, name := range []string{"a.json", "b.json", "c.json"} {
		_, err := store.Enqueue(ctx, name, []byte(`{}`))
		require.NoError(t, err)
	}
	items, err := store.List(ctx, queue.StatePending)
	require.NoError(t, err)
	_, err = store.Transition(ctx, items[0], queue.StateReconciled, []byte(`{"run_id":"r"}`))
	require.NoError(t, err)
	_, err = store.Transition(ctx, items[1], queue.StateFailed, nil)
	require.NoError(t, err)

	report, err := CheckQueue(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Counts[queue.StatePending])
	assert.Equal(t, 1, report.Counts[queue.StateReconciled])
	assert.Equal(t, 1, report.Counts[queue.StateFailed])
	assert.Empty(t, report.MissingSidecars)

	require.NoError(t, os.Remove(filepath.Join(base, "failed", "b.json.error.json")))

	report, err = CheckQueue(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"failed/b.json"}, report.MissingSidecars)
}

func TestCheckSnapshot(t *testing.T) {
	ctx := context.Background()
	db := memoryDB(t)
	require.NoError(t, snapshot.Migrate(db))
	repo := snapshot.NewGormRepository(db)
	now := time.Date(2024, 5, 4, 15, 0, 0, 0, time.UTC)

	report, err := CheckSnapshot(ctx, repo, "acct-1", now)
	require.NoError(t, err)
	assert.False(t, report.Published)

	require.NoError(t, repo.Publish(ctx, &snapshot.Export{AccountID: "acct-1", SnapshotDate: "2024-05-01"}))

	report, err = CheckSnapshot(ctx, repo, "acct-1", now)
	require.NoError(t, err)
	assert.True(t, report.Published)
	assert.Equal(t, "2024-05-01", report.SnapshotDate)
	assert.Equal(t, 3, report.AgeDays)
}
