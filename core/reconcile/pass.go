package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"ads-reconciler/core/lock"
	"ads-reconciler/core/manifest"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/snapshot"

	"go.uber.org/zap"
)

// PassKinds are the snapshot kinds a pass needs.
var PassKinds = []snapshot.Kind{snapshot.KindCampaign, snapshot.KindAdGroup, snapshot.KindTarget}

// Options controls a pass.
type Options struct {
	// DryRun plans every decision but moves nothing.
	DryRun bool
}

// ResultSidecar is written next to a reconciled manifest.
type ResultSidecar struct {
	RunID        string    `json:"run_id"`
	AccountID    string    `json:"account_id"`
	SnapshotDate string    `json:"snapshot_date"`
	MatchedAt    time.Time `json:"matched_at"`
	Matches      *Result   `json:"matches"`
}

// FailureSidecar is written next to a failed manifest.
type FailureSidecar struct {
	Error string `json:"error"`
	Stack string `json:"stack,omitempty"`
}

// Decision is the planned outcome of one pending manifest.
type Decision struct {
	Name    string      `json:"name"`
	RunID   string      `json:"run_id,omitempty"`
	Outcome queue.State `json:"outcome"`
	Counts  *Counts     `json:"counts,omitempty"`
	Error   string      `json:"error,omitempty"`
	// Skipped is set when another pass moved the manifest first.
	Skipped bool `json:"skipped,omitempty"`

	item    queue.Item
	sidecar []byte
}

// PassReport summarizes one pass.
type PassReport struct {
	AccountID    string     `json:"account_id"`
	SnapshotDate string     `json:"snapshot_date"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   time.Time  `json:"finished_at"`
	DryRun       bool       `json:"dry_run"`
	Scanned      int        `json:"scanned"`
	Reconciled   int        `json:"reconciled"`
	Pending      int        `json:"pending"`
	Failed       int        `json:"failed"`
	Skipped      int        `json:"skipped"`
	Decisions    []Decision `json:"decisions"`
}

// Transitions returns the number of manifests the pass moved or would move.
func (r *PassReport) Transitions() int {
	return r.Reconciled + r.Failed
}

func (r *PassReport) count(d Decision) {
	if d.Skipped {
		r.Skipped++
		return
	}
	switch d.Outcome {
	case queue.StateReconciled:
		r.Reconciled++
	case queue.StateFailed:
		r.Failed++
	default:
		r.Pending++
	}
}

// Runner performs reconciliation passes for one account.
type Runner struct {
	Store     queue.Store
	Snapshots *snapshot.Loader
	AccountID string
	// Locker serializes passes. Nil means lock.Noop.
	Locker lock.Locker
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

// Run performs one pass. It returns snapshot.ErrNoSnapshot before anything
// moves if the account has no published snapshot, and lock.ErrNotObtained if
// another pass holds the account lock. When a store failure stops Apply, the
// report reflects the manifests moved so far.
func (r *Runner) Run(ctx context.Context, opts Options) (*PassReport, error) {
	if r.Store == nil || r.Snapshots == nil {
		return nil, fmt.Errorf("runner requires a store and a snapshot loader")
	}
	if r.AccountID == "" {
		return nil, fmt.Errorf("runner requires an account id")
	}
	log := r.logger().With(zap.String("account_id", r.AccountID), zap.Bool("dry_run", opts.DryRun))

	var locker lock.Locker = lock.Noop{}
	if r.Locker != nil {
		locker = r.Locker
	}
	held, err := locker.Obtain(ctx, lock.Key(r.AccountID))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := held.Release(ctx); err != nil {
			log.Warn("Failed to release pass lock", zap.Error(err))
		}
	}()

	started := r.now()

	snap, err := r.Snapshots.GetOrLoad(ctx, r.AccountID, PassKinds...)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	log = log.With(zap.String("snapshot_date", snap.Date))

	report, err := r.Plan(ctx, snap)
	if err != nil {
		return nil, err
	}
	report.StartedAt = started
	report.DryRun = opts.DryRun

	if !opts.DryRun {
		if err := r.Apply(ctx, report); err != nil {
			report.FinishedAt = r.now()
			log.Error("Reconciliation pass stopped", zap.Error(err),
				zap.Int("reconciled", report.Reconciled), zap.Int("failed", report.Failed))
			return report, err
		}
	}
	report.FinishedAt = r.now()

	log.Info("Reconciliation pass finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("reconciled", report.Reconciled),
		zap.Int("pending", report.Pending),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))

	return report, nil
}

// Plan reconciles every pending manifest against snap without moving anything.
// One bad manifest never stops the plan; only store failures do.
func (r *Runner) Plan(ctx context.Context, snap *snapshot.Snapshot) (*PassReport, error) {
	items, err := r.Store.List(ctx, queue.StatePending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending manifests: %w", err)
	}

	report := &PassReport{
		AccountID:    r.AccountID,
		SnapshotDate: snap.Date,
		Scanned:      len(items),
		Decisions:    make([]Decision, 0, len(items)),
	}

	for _, item := range items {
		d, err := r.decide(ctx, item, snap)
		if err != nil {
			return nil, err
		}
		report.Decisions = append(report.Decisions, d)
		report.count(d)
	}
	return report, nil
}

func (r *Runner) decide(ctx context.Context, item queue.Item, snap *snapshot.Snapshot) (Decision, error) {
	d := Decision{Name: item.Name, Outcome: queue.StatePending, item: item}

	data, err := r.Store.Read(ctx, item)
	if errors.Is(err, queue.ErrNotFound) {
		d.Skipped = true
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("failed to read manifest %s: %w", item.Name, err)
	}

	m, res, stack, err := reconcileIsolated(data, snap)
	if m != nil {
		d.RunID = m.RunID
	}
	if err != nil {
		if !errors.Is(err, manifest.ErrStructural) && stack == "" {
			return d, fmt.Errorf("failed to reconcile %s: %w", item.Name, err)
		}
		d.Outcome = queue.StateFailed
		d.Error = err.Error()
		d.sidecar, err = json.MarshalIndent(FailureSidecar{Error: err.Error(), Stack: stack}, "", "  ")
		return d, err
	}

	d.Counts = &res.Counts
	if !res.AllMatched {
		return d, nil
	}

	d.Outcome = queue.StateReconciled
	d.sidecar, err = json.MarshalIndent(ResultSidecar{
		RunID:        m.RunID,
		AccountID:    r.AccountID,
		SnapshotDate: snap.Date,
		MatchedAt:    r.now(),
		Matches:      res,
	}, "", "  ")
	return d, err
}

// reconcileManifest is the engine entry point used by a pass.
var reconcileManifest = Reconcile

// reconcileIsolated parses and reconciles one manifest. A panic is turned into
// an error with its stack so that the manifest fails alone.
func reconcileIsolated(data []byte, snap *snapshot.Snapshot) (m *manifest.Manifest, res *Result, stack string, err error) {
	defer func() {
		if p := recover(); p != nil {
			res = nil
			stack = string(debug.Stack())
			err = fmt.Errorf("panic while reconciling: %v", p)
		}
	}()

	m, err = manifest.Parse(data)
	if err != nil {
		return nil, nil, "", err
	}
	res, err = reconcileManifest(m, snap)
	return m, res, "", err
}

// Apply performs the terminal transitions planned in report. A manifest that
// is already gone is counted as skipped. Any other store error stops Apply;
// transitions already made stay in place.
func (r *Runner) Apply(ctx context.Context, report *PassReport) error {
	log := r.logger()

	for i := range report.Decisions {
		d := &report.Decisions[i]
		if d.Skipped || !d.Outcome.Terminal() {
			continue
		}

		to := d.Outcome
		_, err := r.Store.Transition(ctx, d.item, to, d.sidecar)
		if errors.Is(err, queue.ErrNotFound) {
			log.Info("Manifest already claimed by another pass", zap.String("name", d.Name))
			if d.Outcome == queue.StateReconciled {
				report.Reconciled--
			} else {
				report.Failed--
			}
			d.Skipped = true
			report.Skipped++
			continue
		}
		if err != nil {
			// Unapplied decisions stay pending
			for j := i; j < len(report.Decisions); j++ {
				rest := &report.Decisions[j]
				if rest.Skipped || !rest.Outcome.Terminal() {
					continue
				}
				if rest.Outcome == queue.StateReconciled {
					report.Reconciled--
				} else {
					report.Failed--
				}
				rest.Outcome = queue.StatePending
				report.Pending++
			}
			return fmt.Errorf("failed to move %s to %s: %w", d.Name, to, err)
		}

		fields := []zap.Field{zap.String("name", d.Name), zap.String("run_id", d.RunID)}
		if d.Outcome == queue.StateFailed {
			log.Warn("Manifest failed", append(fields, zap.String("error", d.Error))...)
		} else {
			log.Info("Manifest reconciled", fields...)
		}
	}
	return nil
}
