// AngelaMos | 2026
// migrate.go

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/ummah-social/internal/config"
	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/schema"
)

func newMigrateCmd(opts *options) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the reference schema",
		Long: `Apply the reference schema to the configured database.

Every statement is idempotent, so migrate can be rerun after the schema
changes.

Examples:
  socialctl migrate            # apply to SUPABASE_DB_URL
  socialctl migrate --print    # write the SQL to stdout instead`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), schema.SQL)
				return err
			}

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.Supabase.DatabaseURL == "" {
				return fmt.Errorf("SUPABASE_DB_URL is required to migrate")
			}

			db, err := core.NewDatabase(cmd.Context(), cfg.Supabase, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // best-effort close on exit

			if err := schema.Apply(cmd.Context(), db.DB); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied schema (%s)\n", strings.Join(schema.Tables(), ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")
	return cmd
}
