package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"ads-reconciler/core/resolver"

	"github.com/spf13/cobra"
)

var actionsFile string

// resolveCmd prints the current state of the entities a set of actions touches.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve mutation actions into the current entity state",
	Long: `Resolve mutation actions against the latest published snapshot and print
the current state of every referenced entity, parents included, as JSON.

The file holds either {"actions":[...]} or a bare array of actions.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&actionsFile, "file", "f", "", "Path to the actions JSON file")
	_ = resolveCmd.MarkFlagRequired("file")
	RootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(actionsFile)
	if err != nil {
		return fmt.Errorf("failed to read actions: %w", err)
	}
	actions, err := decodeActions(data)
	if err != nil {
		return err
	}

	svc, err := bootstrap()
	if err != nil {
		return err
	}
	defer svc.close()

	if svc.cfg.Reconcile.AccountID == "" {
		return fmt.Errorf("reconcile.account_id is not set (RECONCILE_ACCOUNT_ID)")
	}

	current, err := svc.resolver().Resolve(cmd.Context(), actions)
	if err != nil {
		return fmt.Errorf("failed to resolve current state: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(current)
}

// decodeActions accepts a wrapped or bare list of actions.
func decodeActions(data []byte) ([]resolver.MutationAction, error) {
	var wrapped struct {
		Actions []resolver.MutationAction `json:"actions"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return wrapped.Actions, nil
	}

	var bare []resolver.MutationAction
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("failed to decode actions: %w", err)
	}
	return bare, nil
}
