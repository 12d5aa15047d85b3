package cli

import (
	"errors"
	"fmt"

	"plm-connector/internal/features/sync"

	"github.com/spf13/cobra"
)

var (
	runDryRun bool
	runItem   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a sync pass now",
	Long: `Runs a batch pass, or a single item with --item. Passes are dry runs
unless --dry-run=false is given.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", true, "build payloads without writing to Cin7")
	runCmd.Flags().StringVar(&runItem, "item", "", "sync a single item number")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if services == nil || services.Sync == nil {
		return errors.New("sync service not configured")
	}

	var (
		result *sync.SyncResult
		err    error
	)
	if runItem != "" {
		cmd.Printf("Syncing item %s (dry run: %t)...\n", runItem, runDryRun)
		result, err = services.Sync.SyncItem(cmd.Context(), runItem, runDryRun, sync.TriggerCLI)
	} else {
		cmd.Printf("Running batch sync (dry run: %t)...\n", runDryRun)
		result, err = services.Sync.RunSync(cmd.Context(), runDryRun, sync.TriggerCLI)
	}

	if result != nil {
		printResult(cmd, result)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if result.Status == sync.StatusError {
		return errors.New("sync finished with errors")
	}
	return nil
}

func printResult(cmd *cobra.Command, r *sync.SyncResult) {
	cmd.Printf("Run %s: %s\n", r.RunID, r.Status)
	cmd.Printf("Processed %d: %d succeeded, %d failed, %d skipped\n", r.Processed, r.Succeeded, r.Failed, r.Skipped)
	if r.Message != "" {
		cmd.Printf("  %s\n", r.Message)
	}
	for _, e := range r.Errors {
		cmd.Printf("  - %s\n", e)
	}
}
