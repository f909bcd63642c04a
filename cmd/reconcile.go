package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"ads-reconciler/core/manifest"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile commands
	dryRunReconcile bool
	manifestFile    string
	manifestName    string
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile creation manifests against the latest snapshot",
	Long: `Reconcile pending creation manifests against the latest published snapshot.

A manifest whose entities are all found moves to reconciled with a result
sidecar. A structurally invalid manifest moves to failed with an error sidecar.
Anything else stays pending for a later pass.`,
}

// runReconcileCmd performs one reconciliation pass.
var runReconcileCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one reconciliation pass",
	Long: `Run one reconciliation pass over the pending manifests.

Examples:
  # Plan and apply
  reconcile run

  # Plan only, nothing moves
  reconcile run --dry-run`,
	RunE: runReconcile,
}

// statusReconcileCmd prints the number of manifests per state.
var statusReconcileCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the number of manifests in every queue state",
	RunE:  runReconcileStatus,
}

// enqueueReconcileCmd stores a manifest in pending.
var enqueueReconcileCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Validate a manifest and add it to the pending queue",
	RunE:  runReconcileEnqueue,
}

func init() {
	reconcileCmd.AddCommand(runReconcileCmd, statusReconcileCmd, enqueueReconcileCmd)

	runReconcileCmd.Flags().BoolVar(&dryRunReconcile, "dry-run", false, "Plan the pass without moving manifests")

	enqueueReconcileCmd.Flags().StringVarP(&manifestFile, "file", "f", "", "Path to the manifest JSON file")
	enqueueReconcileCmd.Flags().StringVar(&manifestName, "name", "", "Queue name (defaults to the file name)")
	_ = enqueueReconcileCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer svc.close()

	runner, err := svc.runner(ctx)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, reconcile.Options{DryRun: dryRunReconcile})
	if report != nil {
		printPassReport(svc.logger, report)
	}
	if err != nil {
		return fmt.Errorf("reconciliation pass failed: %w", err)
	}

	if dryRunReconcile {
		svc.logger.Info("Dry-run mode: No manifests were moved.")
	}
	return nil
}

// printPassReport logs one line per decision that moves or would move a
// manifest, then the totals.
func printPassReport(l *zap.Logger, report *reconcile.PassReport) {
	for _, d := range report.Decisions {
		switch {
		case d.Skipped:
			l.Info("Skipped", zap.String("name", d.Name))
		case d.Outcome == queue.StateFailed:
			l.Warn("Failed", zap.String("name", d.Name), zap.String("error", d.Error))
		case d.Outcome == queue.StateReconciled:
			l.Info("Reconciled", zap.String("name", d.Name), zap.String("run_id", d.RunID))
		case d.Counts != nil:
			l.Info("Pending",
				zap.String("name", d.Name),
				zap.String("run_id", d.RunID),
				zap.Int("campaigns_matched", d.Counts.Campaigns.Matched),
				zap.Int("campaigns_expected", d.Counts.Campaigns.Expected),
				zap.Int("ad_groups_matched", d.Counts.AdGroups.Matched),
				zap.Int("ad_groups_expected", d.Counts.AdGroups.Expected),
				zap.Int("keywords_matched", d.Counts.Keywords.Matched),
				zap.Int("keywords_expected", d.Counts.Keywords.Expected),
				zap.Int("product_ads_matched", d.Counts.ProductAds.Matched),
				zap.Int("product_ads_expected", d.Counts.ProductAds.Expected))
		}
	}

	l.Info("Reconciliation report",
		zap.String("account_id", report.AccountID),
		zap.String("snapshot_date", report.SnapshotDate),
		zap.Int("scanned", report.Scanned),
		zap.Int("reconciled", report.Reconciled),
		zap.Int("pending", report.Pending),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
	)
}

func runReconcileStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer svc.close()

	store, err := svc.queueStore(ctx)
	if err != nil {
		return err
	}

	fields := make([]zap.Field, 0, len(queue.States)+1)
	fields = append(fields, zap.String("backend", svc.cfg.Queue.Backend))
	for _, st := range queue.States {
		items, err := store.List(ctx, st)
		if err != nil {
			return fmt.Errorf("failed to list %s manifests: %w", st, err)
		}
		fields = append(fields, zap.Int(string(st), len(items)))
	}
	svc.logger.Info("Queue status", fields...)
	return nil
}

func runReconcileEnqueue(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(manifestFile)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}

	name := manifestName
	if name == "" {
		name = filepath.Base(manifestFile)
	}

	svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer svc.close()

	store, err := svc.queueStore(ctx)
	if err != nil {
		return err
	}

	item, err := store.Enqueue(ctx, name, data)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", name, err)
	}

	svc.logger.Info("Manifest enqueued",
		zap.String("name", item.Name),
		zap.String("run_id", m.RunID),
		zap.Int("entities", m.EntityCount()))
	return nil
}
