package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"reelfeed/internal/aggregator"
	"reelfeed/internal/config"
	"reelfeed/internal/feed"
	"reelfeed/internal/likes"
	"reelfeed/internal/pexels"
	"reelfeed/internal/storage"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "reelfeed",
		Short: "Reelfeed serves a vertical video feed with persistent likes",
		Long: `Reelfeed pulls a catalog of videos from the Pexels search API in parallel
pages, keeps the user's likes in a local SQLite database and serves both
over a JSON API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML config file")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newFetchCmd(opts))
	rootCmd.AddCommand(newLikeCmd(opts))
	rootCmd.AddCommand(newLikesCmd(opts))

	return rootCmd
}

// app holds the components shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	storage *storage.SQLiteStorage
	likes   *likes.Store
}

func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := setupLogger(cfg.Logging, cmd.ErrOrStderr())

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	likeStore, err := likes.New(store, cfg.Likes.CacheSize, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create like store: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		likes:   likeStore,
	}, nil
}

func (a *app) controller() *feed.Controller {
	client := pexels.NewClient(a.cfg.API, a.logger)
	agg := aggregator.New(client, a.logger)
	return feed.New(agg, a.likes, feed.Options{
		TargetCount: a.cfg.Feed.TotalItems,
		PageSize:    a.cfg.Feed.PerPage,
	}, a.logger)
}

func (a *app) Close() error {
	return a.storage.Close()
}
