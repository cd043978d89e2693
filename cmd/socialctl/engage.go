// AngelaMos | 2026
// engage.go

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/ummah-social/internal/social"
)

// targetFlags selects between a post and a dua request for engagement
// commands.
type targetFlags struct {
	dua bool
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dua, "dua", false, "treat the id as a dua request instead of a post")
}

func (f *targetFlags) target(id string) social.Target {
	if f.dua {
		return social.ForDuaRequest(id)
	}
	return social.ForPost(id)
}

func uuidArgs(cmd *cobra.Command, args []string) error {
	for _, a := range args {
		if err := uuid.Validate(a); err != nil {
			return fmt.Errorf("%q is not a valid id", a)
		}
	}
	return nil
}

func newLikeCmd(opts *options) *cobra.Command {
	var tf targetFlags

	cmd := &cobra.Command{
		Use:   "like <user-id> <target-id>",
		Short: "Toggle a like for a user",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), uuidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := store.ToggleLike(cmd.Context(), args[0], tf.target(args[1]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	tf.register(cmd)
	return cmd
}

func newBookmarkCmd(opts *options) *cobra.Command {
	var tf targetFlags

	cmd := &cobra.Command{
		Use:   "bookmark <user-id> <target-id>",
		Short: "Toggle a bookmark for a user",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), uuidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := store.ToggleBookmark(cmd.Context(), args[0], tf.target(args[1]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	tf.register(cmd)
	return cmd
}

func newShareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "share <post-id>",
		Short: "Increment a post's share count",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), uuidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := store.IncrementShareCount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if count == nil {
				return fmt.Errorf("post %s not found", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s shares=%d\n", args[0], *count)
			return nil
		},
	}
}
