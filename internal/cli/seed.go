package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var seedRulesCmd = &cobra.Command{
	Use:   "seed-rules",
	Short: "Insert the default mapping rules",
	Long: `Inserts the default mapping rules. Rules whose key already exists
are left untouched, so running this twice is safe.`,
	Args: cobra.NoArgs,
	RunE: runSeedRules,
}

func init() {
	rootCmd.AddCommand(seedRulesCmd)
}

func runSeedRules(cmd *cobra.Command, args []string) error {
	if services == nil || services.Rules == nil {
		return errors.New("rule service not configured")
	}

	added, err := services.Rules.SeedDefaults(cmd.Context())
	if err != nil {
		return fmt.Errorf("seed rules: %w", err)
	}
	cmd.Printf("Seeded %d rule(s).\n", added)
	return nil
}
