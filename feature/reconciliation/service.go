package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"

	"ads-reconciler/core/queue"
	"ads-reconciler/core/reconcile"

	"go.uber.org/zap"
)

// ItemDetail is a manifest together with its outcome sidecar.
type ItemDetail struct {
	queue.Item
	Manifest json.RawMessage `json:"manifest"`
	Sidecar  json.RawMessage `json:"sidecar,omitempty"`
}

// Service runs passes and reads the queue.
type Service struct {
	runner *reconcile.Runner
	store  queue.Store
	logger *zap.Logger
}

// NewService creates a Service around a configured runner.
func NewService(runner *reconcile.Runner, logger *zap.Logger) *Service {
	return &Service{runner: runner, store: runner.Store, logger: logger}
}

// Run performs one reconciliation pass.
func (s *Service) Run(ctx context.Context, dryRun bool) (*reconcile.PassReport, error) {
	return s.runner.Run(ctx, reconcile.Options{DryRun: dryRun})
}

// Status counts the manifests in every state.
func (s *Service) Status(ctx context.Context) (map[queue.State]int, error) {
	counts := make(map[queue.State]int, len(queue.States))
	for _, st := range queue.States {
		items, err := s.store.List(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s manifests: %w", st, err)
		}
		counts[st] = len(items)
	}
	return counts, nil
}

// List returns the manifests in one state.
func (s *Service) List(ctx context.Context, state queue.State) ([]queue.Item, error) {
	return s.store.List(ctx, state)
}

// Get returns one manifest with its sidecar. It returns queue.ErrNotFound
// when the manifest is not in the state.
func (s *Service) Get(ctx context.Context, state queue.State, name string) (*ItemDetail, error) {
	items, err := s.store.List(ctx, state)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if item.Name != name {
			continue
		}
		data, err := s.store.Read(ctx, item)
		if err != nil {
			return nil, err
		}
		detail := &ItemDetail{Item: item, Manifest: asJSON(data)}
		if state.Terminal() {
			sidecar, err := s.store.ReadSidecar(ctx, item)
			if err != nil {
				return nil, err
			}
			detail.Sidecar = asJSON(sidecar)
		}
		return detail, nil
	}
	return nil, fmt.Errorf("%w: %s/%s", queue.ErrNotFound, state, name)
}

// asJSON keeps valid JSON as is and wraps anything else as a JSON string.
func asJSON(data []byte) json.RawMessage {
	if json.Valid(data) {
		return data
	}
	quoted, _ := json.Marshal(string(data))
	return quoted
}
