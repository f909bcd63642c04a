package cmd

import (
	"fmt"

	"ads-reconciler/core/database"
	"ads-reconciler/core/queue"
	"ads-reconciler/core/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkOnly bool

// migrateCmd creates or checks the snapshot and queue tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Long: `Auto-migrate the snapshot tables and the manifest queue table.

With --check nothing is changed; missing tables and columns are reported.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&checkOnly, "check", false, "Report schema drift without migrating")
	RootCmd.AddCommand(migrateCmd)
}

// schemaModels lists every table the service owns.
func schemaModels() []any {
	return append(snapshot.Models(), &queue.Entry{})
}

func runMigrate(cmd *cobra.Command, args []string) error {
	svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer svc.close()

	if checkOnly {
		drifts, err := database.CheckModels(svc.db, schemaModels()...)
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		for _, d := range drifts {
			svc.logger.Warn("Schema drift",
				zap.String("table", d.Table),
				zap.Bool("missing_table", d.MissingTable),
				zap.Strings("missing_columns", d.MissingColumns))
		}
		if len(drifts) > 0 {
			return fmt.Errorf("%d table(s) out of date, run migrate", len(drifts))
		}
		svc.logger.Info("Schema is up to date")
		return nil
	}

	if err := snapshot.Migrate(svc.db); err != nil {
		return err
	}
	if err := queue.Migrate(svc.db); err != nil {
		return err
	}
	svc.logger.Info("Migration completed", zap.String("driver", svc.cfg.Database.Driver))
	return nil
}
