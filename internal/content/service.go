package content

import (
	"context"
	"sort"
	"strings"

	"github.com/halcyonmedia/site-services/pkg/logger"
)

// FeedStore holds feed items imported at runtime.
type FeedStore interface {
	Upsert(ctx context.Context, items []FeedItem) (int, error)
	List(ctx context.Context, t FeedType) ([]FeedItem, error)
}

// Signer resolves a media object key to a URL a browser can fetch.
type Signer interface {
	PresignedGet(ctx context.Context, key string) (string, error)
}

// Service answers content queries from the catalog and the feed store.
type Service struct {
	catalog *Catalog
	feed    FeedStore
	signer  Signer
}

// NewService builds a content service. feed and signer may be nil.
func NewService(catalog *Catalog, feed FeedStore, signer Signer) *Service {
	return &Service{catalog: catalog, feed: feed, signer: signer}
}

// Cards returns the cards in category (all when empty) with styles attached
// and media keys resolved to URLs when a signer is configured.
func (s *Service) Cards(ctx context.Context, category string) []ContentCard {
	out := make([]ContentCard, 0, len(s.catalog.Cards))
	for _, c := range s.catalog.Cards {
		if category != "" && !strings.EqualFold(c.Category, category) {
			continue
		}
		st, _ := StyleFor(c.Variant)
		c.Style = &st
		c.MediaURLs = s.mediaURLs(ctx, c)
		out = append(out, c)
	}
	return out
}

func (s *Service) mediaURLs(ctx context.Context, c ContentCard) []string {
	if s.signer == nil || len(c.MediaKeys) == 0 {
		return c.MediaURLs
	}
	urls := make([]string, 0, len(c.MediaKeys))
	for _, k := range c.MediaKeys {
		u, err := s.signer.PresignedGet(ctx, k)
		if err != nil {
			logger.Warnf("card %s: %v", c.Slug, err)
			return c.MediaURLs
		}
		urls = append(urls, u)
	}
	return urls
}

// Feed merges seed and imported items of type t, newest first. An imported
// item replaces a seed item with the same id.
func (s *Service) Feed(ctx context.Context, t FeedType) ([]FeedItem, error) {
	byID := map[string]FeedItem{}
	for _, it := range s.catalog.Feed {
		if t == "" || it.Type == t {
			byID[it.ID] = it
		}
	}
	if s.feed != nil {
		imported, err := s.feed.List(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, it := range imported {
			byID[it.ID] = it
		}
	}
	out := make([]FeedItem, 0, len(byID))
	for _, it := range byID {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// Events returns events in start order.
func (s *Service) Events() []Event {
	out := append([]Event(nil), s.catalog.Events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

func (s *Service) Pricing() []PricingPlan {
	return append([]PricingPlan(nil), s.catalog.Pricing...)
}
