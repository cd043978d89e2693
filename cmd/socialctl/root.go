// AngelaMos | 2026
// root.go

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/ummah-social/internal/config"
	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/remote"
	"github.com/carterperez-dev/ummah-social/internal/social"
)

type options struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "socialctl",
		Short: "Operate the Ummah social backend from the command line",
		Long: `socialctl talks to the same Supabase Postgres database as the API.

It applies the reference schema, inspects the feed and performs
engagement actions on behalf of a user, which is useful for seeding
and debugging local environments.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every backend call")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newPostsCmd(opts),
		newLikeCmd(opts),
		newBookmarkCmd(opts),
		newShareCmd(opts),
		newTokenCmd(opts),
	)

	return cmd
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openStore connects to the configured database. The returned close func
// must be called once the command finishes.
func (o *options) openStore(
	ctx context.Context,
	cmd *cobra.Command,
) (*social.Store, func(), error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Supabase.IsConfigured() {
		return nil, nil, social.ErrNotConfigured
	}

	db, err := core.NewDatabase(ctx, cfg.Supabase, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	store := social.NewStore(remote.NewPostgres(db.DB), true, o.logger(cmd.ErrOrStderr()))
	return store, func() { _ = db.Close() }, nil //nolint:errcheck // best-effort close on exit
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
