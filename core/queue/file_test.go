package queue

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestFileStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return newTestFileStore(t) })
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	for _, st := range States {
		info, err := os.Stat(filepath.Join(s.base, string(st)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	item, err := s.Enqueue(ctx, "r1.json", []byte(`{"run_id":"r1"}`))
	require.NoError(t, err)
	_, err = s.Transition(ctx, item, StateFailed, []byte(`{"error":"run_id is required"}`))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(s.base, "failed", "r1.json"))
	assert.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(s.base, "failed", "r1.json.error.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id")

	// No temp files remain after a move
	entries, err := os.ReadDir(filepath.Join(s.base, "failed"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileStore_ListSkipsForeignEntries(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)
	pending := filepath.Join(s.base, "pending")

	require.NoError(t, os.WriteFile(filepath.Join(pending, ".r2.json.123.tmp"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pending, "stray.result.json"), []byte("{}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(pending, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pending, "r1.json"), []byte("{}"), 0o644))

	items, err := s.List(ctx, StatePending)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "r1.json", items[0].Name)
}

func TestFileStore_VanishedManifestLeavesNoSidecar(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	item, err := s.Enqueue(ctx, "r1.json", []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(s.base, "pending", "r1.json")))

	_, err = s.Transition(ctx, item, StateReconciled, []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = os.Stat(filepath.Join(s.base, "reconciled", "r1.json.result.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewFileStore_RequiresBase(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestFileStore_LoserKeepsWinnerSidecar(t *testing.T) {
	ctx := context.Background()
	winner := newTestFileStore(t)
	loser := &FileStore{base: winner.base}

	item, err := winner.Enqueue(ctx, "r1.json", []byte(`{"run_id":"r1"}`))
	require.NoError(t, err)

	var winnerErr error
	loser.beforeMove = func() {
		_, winnerErr = winner.Transition(ctx, item, StateReconciled, []byte(`{"run_id":"winner"}`))
	}

	_, err = loser.Transition(ctx, item, StateReconciled, []byte(`{"run_id":"loser"}`))
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, winnerErr)

	sidecar, err := winner.ReadSidecar(ctx, Item{Name: "r1.json", State: StateReconciled})
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"winner"}`, string(sidecar))

	entries, err := os.ReadDir(filepath.Join(winner.base, "reconciled"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"r1.json", "r1.json.result.json"}, names)
}
