package feedsync

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/halcyonmedia/site-services/pkg/logger"
)

// Schedule runs ImportAll on spec until ctx is done. spec accepts standard
// five-field cron expressions and descriptors such as "@every 30m".
func Schedule(ctx context.Context, im *Importer, spec string, urls []string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger), cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		n := im.ImportAll(ctx, urls)
		logger.Infof("feedsync run finished: %d new items", n)
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
