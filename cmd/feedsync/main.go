package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/halcyonmedia/site-services/internal/config"
	"github.com/halcyonmedia/site-services/internal/content"
	"github.com/halcyonmedia/site-services/internal/content/repository"
	"github.com/halcyonmedia/site-services/internal/database"
	"github.com/halcyonmedia/site-services/internal/feedsync"
	"github.com/halcyonmedia/site-services/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()

	var once bool
	var urls []string
	cmd := &cobra.Command{
		Use:   "feedsync",
		Short: "Import editorial RSS/Atom feeds into the site feed collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				urls = cfg.FeedSync.URLs
			}
			if len(urls) == 0 {
				logger.Warnf("no feeds configured (FEEDSYNC_URLS or --url)")
				return nil
			}
			ctx := cmd.Context()

			var store content.FeedStore = repository.NewMemoryRepo()
			if cfg.MongoDB.URI != "" {
				client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
				if err != nil {
					return err
				}
				defer func() { _ = client.Disconnect(context.Background()) }()
				repo, err := repository.NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database).Collection("feed_items"))
				if err != nil {
					return err
				}
				store = repo
			} else {
				logger.Warnf("MONGODB_URI not set; imported items are kept in memory only")
			}

			im := feedsync.NewImporter(store, content.FeedType(cfg.FeedSync.DefaultType), &http.Client{Timeout: cfg.Server.UpstreamTimeout})
			logger.Infof("feedsync: %d new items", im.ImportAll(ctx, urls))
			if once {
				return nil
			}
			logger.Infof("feedsync scheduled: %s", cfg.FeedSync.Schedule)
			return feedsync.Schedule(ctx, im, cfg.FeedSync.Schedule, urls)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "import once and exit")
	cmd.Flags().StringSliceVar(&urls, "url", nil, "feed URL (repeatable); overrides FEEDSYNC_URLS")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Errorf("feedsync: %v", err)
		stop()
		os.Exit(1)
	}
}
