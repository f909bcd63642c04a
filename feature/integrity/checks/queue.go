package checks

import (
	"context"
	"errors"
	"fmt"

	"ads-reconciler/core/queue"
)

// QueueReport is the result of a queue check.
type QueueReport struct {
	Counts map[queue.State]int `json:"counts"`
	// MissingSidecars lists terminal manifests without a readable outcome.
	MissingSidecars []string `json:"missing_sidecars"`
}

// CheckQueue counts the manifests per state and verifies that every
// terminal manifest has its sidecar.
func CheckQueue(ctx context.Context, store queue.Store) (*QueueReport, error) {
	report := &QueueReport{
		Counts:          make(map[queue.State]int, len(queue.States)),
		MissingSidecars: []string{},
	}

	for _, st := range queue.States {
		items, err := store.List(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s manifests: %w", st, err)
		}
		report.Counts[st] = len(items)

		if !st.Terminal() {
			continue
		}
		for _, item := range items {
			_, err := store.ReadSidecar(ctx, item)
			if errors.Is(err, queue.ErrNotFound) {
				report.MissingSidecars = append(report.MissingSidecars, string(st)+"/"+item.Name)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read sidecar of %s: %w", item.Name, err)
			}
		}
	}
	return report, nil
}
