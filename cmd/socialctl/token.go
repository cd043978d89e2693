// AngelaMos | 2026
// token.go

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/ummah-social/internal/auth"
	"github.com/carterperez-dev/ummah-social/internal/config"
)

func newTokenCmd(opts *options) *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint an access token for local testing",
		Long: `Mint an access token signed with SUPABASE_JWT_SECRET, shaped like the
ones Supabase Auth issues. Use it as a bearer token against a local API.

Examples:
  socialctl token 6c1f2d4e-8a55-4a7e-9f7b-0d3c2b1a9e88 --ttl 2h`,
		Args: cobra.MatchAll(cobra.ExactArgs(1), uuidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			verifier, err := auth.NewVerifier(cfg.Supabase)
			if err != nil {
				return err
			}

			token, err := verifier.Sign(args[0], email, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
