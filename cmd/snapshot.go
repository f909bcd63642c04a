package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"ads-reconciler/core/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportFile      string
	snapshotAccount string
)

// snapshotCmd is the parent command for snapshot operations.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Publish and inspect platform snapshots",
}

// publishSnapshotCmd ingests a parsed export.
var publishSnapshotCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a parsed platform export as one snapshot",
	Long: `Publish a parsed platform export (JSON rows) as the snapshot of one
account and date. Publishing the same account and date again replaces it.`,
	RunE: runSnapshotPublish,
}

// latestSnapshotCmd prints the latest published date.
var latestSnapshotCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the latest published snapshot date",
	RunE:  runSnapshotLatest,
}

func init() {
	snapshotCmd.AddCommand(publishSnapshotCmd, latestSnapshotCmd)

	publishSnapshotCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Path to the export JSON file")
	_ = publishSnapshotCmd.MarkFlagRequired("file")

	latestSnapshotCmd.Flags().StringVar(&snapshotAccount, "account", "", "Account id (defaults to reconcile.account_id)")

	RootCmd.AddCommand(snapshotCmd)
}

func runSnapshotPublish(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(exportFile)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}

	var export snapshot.Export
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("failed to decode export: %w", err)
	}

	svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer svc.close()

	if err := svc.repo.Publish(cmd.Context(), &export); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	svc.logger.Info("Snapshot published",
		zap.String("account_id", export.AccountID),
		zap.String("snapshot_date", export.SnapshotDate),
		zap.Int("campaigns", len(export.Campaigns)),
		zap.Int("ad_groups", len(export.AdGroups)),
		zap.Int("targets", len(export.Targets)),
		zap.Int("placements", len(export.Placements)))
	return nil
}

func runSnapshotLatest(cmd *cobra.Command, args []string) error {
	svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer svc.close()

	account := snapshotAccount
	if account == "" {
		account = svc.cfg.Reconcile.AccountID
	}
	if account == "" {
		return fmt.Errorf("no account given (--account or RECONCILE_ACCOUNT_ID)")
	}

	date, err := svc.repo.LatestDate(cmd.Context(), account)
	if err != nil {
		return err
	}

	svc.logger.Info("Latest snapshot", zap.String("account_id", account), zap.String("snapshot_date", date))
	return nil
}
