// Package cli implements syncctl, the operator command line for the connector.
package cli

import (
	"context"

	"plm-connector/internal/features/sync"

	"github.com/spf13/cobra"
)

// SyncRunner runs passes through the same orchestrator the HTTP API uses.
type SyncRunner interface {
	RunSync(ctx context.Context, dryRun bool, trigger sync.Trigger) (*sync.SyncResult, error)
	SyncItem(ctx context.Context, itemNumber string, dryRun bool, trigger sync.Trigger) (*sync.SyncResult, error)
}

type AutoSyncSetter interface {
	SetAutoSync(ctx context.Context, enabled bool) error
}

type RuleSeeder interface {
	SeedDefaults(ctx context.Context) (int, error)
}

// Services are injected by main once the application container has started.
type Services struct {
	Sync     SyncRunner
	Settings AutoSyncSetter
	Rules    RuleSeeder
}

var services *Services

var rootCmd = &cobra.Command{
	Use:           "syncctl",
	Short:         "Operate the PLM to Cin7 connector",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line with the given services.
func Execute(ctx context.Context, svc *Services, args []string) error {
	services = svc
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
