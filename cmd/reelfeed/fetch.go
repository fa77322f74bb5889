package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"reelfeed/internal/catalog"
	"reelfeed/internal/feed"
	"reelfeed/internal/pexels"
)

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var (
		limit   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one catalog load and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			ctrl := a.controller()
			if err := ctrl.LoadAndWait(ctx); err != nil {
				if ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("fetch timed out after %s: %w", timeout, err)
				}
				return fmt.Errorf("fetch failed: %s", pexels.Message(err))
			}

			return printCatalog(cmd.OutOrStdout(), ctrl, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of items to list (0 for all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "give up waiting after this long")

	return cmd
}

func printCatalog(out io.Writer, ctrl *feed.Controller, limit int) error {
	items := ctrl.Items()
	shown := items
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tOWNER\tSIZE\tDURATION\tLIKES\tVIDEO")
	for i, item := range shown {
		video, ok := catalog.BestVariant(item)
		if !ok {
			video = "-"
		}
		liked := ""
		if ctrl.IsLiked(item.ID) {
			liked = " *"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%dx%d\t%ds\t%s%s\t%s\n",
			i, item.ID, item.Owner.DisplayName, item.Width, item.Height,
			item.DurationSeconds, humanize.Comma(int64(ctrl.LikeCount(item.ID))), liked, video)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\n%d items loaded, %d shown\n", len(items), len(shown))
	return err
}
