package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var autoSyncCmd = &cobra.Command{
	Use:       "auto-sync on|off",
	Short:     "Enable or disable the scheduled sync",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE:      runAutoSync,
}

func init() {
	rootCmd.AddCommand(autoSyncCmd)
}

func runAutoSync(cmd *cobra.Command, args []string) error {
	if services == nil || services.Settings == nil {
		return errors.New("settings service not configured")
	}

	enabled := args[0] == "on"
	if err := services.Settings.SetAutoSync(cmd.Context(), enabled); err != nil {
		return fmt.Errorf("update auto-sync: %w", err)
	}
	cmd.Printf("Auto-sync %s.\n", map[bool]string{true: "enabled", false: "disabled"}[enabled])
	return nil
}
