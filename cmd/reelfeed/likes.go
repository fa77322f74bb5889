package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newLikeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Toggle the like on an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.likes.Toggle(id)
			if err != nil {
				return fmt.Errorf("toggle like: %w", err)
			}

			verb := "unliked"
			if rec.Liked {
				verb = "liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d (%s likes)\n", verb, id, humanize.Comma(int64(rec.Count)))
			return nil
		},
	}
}

func newLikesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "likes",
		Short: "Inspect or reset stored likes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List liked item ids, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ids, err := a.likes.LikedIDs()
			if err != nil {
				return fmt.Errorf("list likes: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintf(out, "%d\t%s\n", id, humanize.Comma(int64(a.likes.LikeCount(id))))
			}
			fmt.Fprintf(out, "%d liked\n", len(ids))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget every like and stored count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.storage.ClearLikes(); err != nil {
				return fmt.Errorf("reset likes: %w", err)
			}
			a.likes.Purge()

			fmt.Fprintln(cmd.OutOrStdout(), "likes cleared")
			return nil
		},
	})

	return cmd
}
