package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSidecarName(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"r1.json", StateReconciled, "r1.json.result.json"},
		{"r1.json", StateFailed, "r1.json.error.json"},
		{"r1.json", StatePending, ""},
		{"batch.v2.json", StateReconciled, "batch.v2.json.result.json"},
		{"noext", StateFailed, "noext.error.json"},
		{"r1", StateReconciled, "r1.result.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, SidecarName(tt.name, tt.state))
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatePending, StateReconciled))
	assert.True(t, CanTransition(StatePending, StateFailed))
	assert.False(t, CanTransition(StatePending, StatePending))
	assert.False(t, CanTransition(StateReconciled, StateFailed))
	assert.False(t, CanTransition(StateFailed, StatePending))
	assert.False(t, CanTransition(StateReconciled, StatePending))
}

func TestParseState(t *testing.T) {
	st, err := ParseState(" Reconciled ")
	require.NoError(t, err)
	assert.Equal(t, StateReconciled, st)

	_, err = ParseState("archived")
	assert.Error(t, err)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("r1.json"))
	assert.ErrorIs(t, ValidateName(""), ErrInvalidName)
	assert.ErrorIs(t, ValidateName(".hidden.json"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("../escape.json"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("a/b.json"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("r1.result.json"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName("r1.error.json"), ErrInvalidName)
}

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("Enqueue And List", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Enqueue(ctx, "b.json", []byte(`{"run_id":"b"}`))
		require.NoError(t, err)
		_, err = s.Enqueue(ctx, "a.json", []byte(`{"run_id":"a"}`))
		require.NoError(t, err)

		items, err := s.List(ctx, StatePending)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "a.json", items[0].Name)
		assert.Equal(t, "b.json", items[1].Name)
		assert.Equal(t, StatePending, items[0].State)

		data, err := s.Read(ctx, items[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"run_id":"a"}`, string(data))

		_, err = s.Enqueue(ctx, "a.json", []byte(`{}`))
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("Transition Moves Manifest And Sidecar", func(t *testing.T) {
		s := newStore(t)
		item, err := s.Enqueue(ctx, "r1.json", []byte(`{"run_id":"r1"}`))
		require.NoError(t, err)

		moved, err := s.Transition(ctx, item, StateReconciled, []byte(`{"run_id":"r1","matches":{}}`))
		require.NoError(t, err)
		assert.Equal(t, StateReconciled, moved.State)

		pending, err := s.List(ctx, StatePending)
		require.NoError(t, err)
		assert.Empty(t, pending)

		reconciled, err := s.List(ctx, StateReconciled)
		require.NoError(t, err)
		require.Len(t, reconciled, 1, "sidecars are never listed")
		assert.Equal(t, "r1.json", reconciled[0].Name)

		data, err := s.Read(ctx, reconciled[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"run_id":"r1"}`, string(data))

		sidecar, err := s.ReadSidecar(ctx, reconciled[0])
		require.NoError(t, err)
		assert.JSONEq(t, `{"run_id":"r1","matches":{}}`, string(sidecar))
	})

	t.Run("Names Sharing A Stem Keep Their Own Sidecars", func(t *testing.T) {
		s := newStore(t)
		withExt, err := s.Enqueue(ctx, "r1.json", []byte(`{"run_id":"A"}`))
		require.NoError(t, err)
		bare, err := s.Enqueue(ctx, "r1", []byte(`{"run_id":"B"}`))
		require.NoError(t, err)

		_, err = s.Transition(ctx, withExt, StateReconciled, []byte(`{"run_id":"A"}`))
		require.NoError(t, err)
		_, err = s.Transition(ctx, bare, StateReconciled, []byte(`{"run_id":"B"}`))
		require.NoError(t, err)

		reconciled, err := s.List(ctx, StateReconciled)
		require.NoError(t, err)
		require.Len(t, reconciled, 2)

		sidecar, err := s.ReadSidecar(ctx, Item{Name: "r1.json", State: StateReconciled})
		require.NoError(t, err)
		assert.JSONEq(t, `{"run_id":"A"}`, string(sidecar))

		sidecar, err = s.ReadSidecar(ctx, Item{Name: "r1", State: StateReconciled})
		require.NoError(t, err)
		assert.JSONEq(t, `{"run_id":"B"}`, string(sidecar))
	})

	t.Run("Second Transition Finds Nothing", func(t *testing.T) {
		s := newStore(t)
		item, err := s.Enqueue(ctx, "r1.json", []byte(`{}`))
		require.NoError(t, err)

		_, err = s.Transition(ctx, item, StateFailed, []byte(`{"error":"x"}`))
		require.NoError(t, err)
		_, err = s.Transition(ctx, item, StateReconciled, []byte(`{}`))
		assert.ErrorIs(t, err, ErrNotFound)

		reconciled, err := s.List(ctx, StateReconciled)
		require.NoError(t, err)
		assert.Empty(t, reconciled)
	})

	t.Run("Terminal States Are Final", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Transition(ctx, Item{Name: "x.json", State: StateReconciled}, StateFailed, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = s.Transition(ctx, Item{Name: "x.json", State: StatePending}, StatePending, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Missing Items", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Read(ctx, Item{Name: "ghost.json", State: StatePending})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.ReadSidecar(ctx, Item{Name: "ghost.json", State: StatePending})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Concurrent Claims Have One Winner", func(t *testing.T) {
		s := newStore(t)
		item, err := s.Enqueue(ctx, "race.json", []byte(`{}`))
		require.NoError(t, err)

		const contenders = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			wins    int
			losses  int
			unknown []error
		)
		for i := 0; i < contenders; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Transition(ctx, item, StateReconciled, []byte(`{"ok":true}`))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case errors.Is(err, ErrNotFound):
					losses++
				default:
					unknown = append(unknown, err)
				}
			}()
		}
		wg.Wait()

		assert.Empty(t, unknown)
		assert.Equal(t, 1, wins)
		assert.Equal(t, contenders-1, losses)

		reconciled, err := s.List(ctx, StateReconciled)
		require.NoError(t, err)
		require.Len(t, reconciled, 1)
		_, err = s.ReadSidecar(ctx, reconciled[0])
		assert.NoError(t, err)
	})
}
