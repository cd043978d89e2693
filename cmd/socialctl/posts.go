// AngelaMos | 2026
// posts.go

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/ummah-social/internal/social"
)

func newPostsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect the post feed",
	}
	cmd.AddCommand(newPostsListCmd(opts))
	return cmd
}

func newPostsListCmd(opts *options) *cobra.Command {
	var (
		filter     social.PostFilter
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Long: `List posts, newest first.

Examples:
  socialctl posts list --limit 5
  socialctl posts list --tag ramadan --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			posts, err := store.GetPosts(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), posts)
			}
			return printPosts(cmd, posts)
		},
	}

	cmd.Flags().IntVar(&filter.Limit, "limit", social.DefaultPageSize, "page size")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "rows to skip")
	cmd.Flags().StringVar(&filter.Tag, "tag", "", "match tag, category or content")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}

func printPosts(cmd *cobra.Command, posts []social.Post) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAUTHOR\tCATEGORY\tLIKES\tSHARES\tCONTENT")

	for _, p := range posts {
		author := p.UserID
		if p.Author != nil {
			author = "@" + p.Author.Username
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			p.ID, author, p.Category, p.LikesCount, p.SharesCount, truncate(p.Content, 48),
		)
	}
	return w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
