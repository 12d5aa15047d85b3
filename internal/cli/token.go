package cli

import (
	"fmt"
	"time"

	"plm-connector/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	tokenRoles []string
	tokenTTL   time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <operator-id>",
	Short: "Issue a bearer token for the HTTP API",
	Long: `Signs a JWT with the configured JWT_SECRET. Tokens with the admin role
can also read /admin/logs and /admin/audit.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringSliceVar(&tokenRoles, "role", []string{"operator"}, "roles to embed (repeatable)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	token, err := utils.GenerateToken(args[0], tokenRoles, tokenTTL)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	cmd.Println(token)
	return nil
}
