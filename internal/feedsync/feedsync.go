// Package feedsync imports editorial RSS and Atom feeds into the content feed
// store.
package feedsync

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/halcyonmedia/site-services/internal/content"
	"github.com/halcyonmedia/site-services/pkg/logger"
	"github.com/halcyonmedia/site-services/pkg/metrics"
)

// Importer fetches feeds and upserts their entries.
type Importer struct {
	parser      *gofeed.Parser
	store       content.FeedStore
	defaultType content.FeedType
	now         func() time.Time
}

func NewImporter(store content.FeedStore, defaultType content.FeedType, client *http.Client) *Importer {
	if !defaultType.Valid() {
		defaultType = content.FeedArticle
	}
	p := gofeed.NewParser()
	if client != nil {
		p.Client = client
	}
	return &Importer{parser: p, store: store, defaultType: defaultType, now: time.Now}
}

// ImportURL fetches one feed and returns the number of new items stored.
func (im *Importer) ImportURL(ctx context.Context, feedURL string) (int, error) {
	parsed, err := im.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	items := im.convert(feedURL, parsed)
	if len(items) == 0 {
		return 0, nil
	}
	added, err := im.store.Upsert(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("store items from %s: %w", feedURL, err)
	}
	metrics.FeedImported.Add(float64(added))
	return added, nil
}

// ImportAll imports every URL in turn. A failing feed is logged and skipped.
func (im *Importer) ImportAll(ctx context.Context, urls []string) int {
	total := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		n, err := im.ImportURL(ctx, u)
		if err != nil {
			logger.Warnf("feedsync: %v", err)
			continue
		}
		logger.Infow("feed imported", "url", u, "new", n)
		total += n
	}
	return total
}

func (im *Importer) convert(feedURL string, f *gofeed.Feed) []content.FeedItem {
	now := im.now()
	out := make([]content.FeedItem, 0, len(f.Items))
	for _, entry := range f.Items {
		link := entry.Link
		if link == "" && strings.HasPrefix(entry.GUID, "http") {
			link = entry.GUID
		}
		key := entry.GUID
		if key == "" {
			key = link
		}
		if key == "" || link == "" || strings.TrimSpace(entry.Title) == "" {
			continue
		}
		date := now
		if entry.PublishedParsed != nil {
			date = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			date = *entry.UpdatedParsed
		}
		it := content.FeedItem{
			ID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte(feedURL+"#"+key)).String(),
			Date:    date.UTC(),
			Title:   strings.TrimSpace(entry.Title),
			Type:    im.classify(entry),
			Summary: strings.TrimSpace(entry.Description),
			Topics:  entry.Categories,
			Link:    link,
			Origin:  feedURL,
		}
		for _, a := range entry.Authors {
			if a != nil && a.Name != "" {
				it.Authors = append(it.Authors, a.Name)
			}
		}
		out = append(out, it)
	}
	return out
}

// classify infers the feed type from enclosures, categories and the link.
func (im *Importer) classify(entry *gofeed.Item) content.FeedType {
	for _, enc := range entry.Enclosures {
		switch {
		case strings.HasPrefix(enc.Type, "audio/"):
			return content.FeedPodcast
		case strings.HasPrefix(enc.Type, "video/"):
			return content.FeedVideo
		}
	}
	for _, c := range entry.Categories {
		if t := content.FeedType(strings.ToLower(strings.TrimSpace(c))); t.Valid() {
			return t
		}
	}
	link := strings.ToLower(entry.Link)
	if strings.Contains(link, "youtube.com/") || strings.Contains(link, "youtu.be/") || strings.Contains(link, "vimeo.com/") {
		return content.FeedVideo
	}
	return im.defaultType
}
