package content

import "time"

// Variant selects the visual treatment of a card.
type Variant string

const (
	VariantDefault  Variant = "default"
	VariantClient   Variant = "client"
	VariantProject  Variant = "project"
	VariantIP       Variant = "ip"
	VariantSeasonal Variant = "seasonal"
)

// FeedType is the kind of an editorial feed entry.
type FeedType string

const (
	FeedVideo      FeedType = "video"
	FeedArticle    FeedType = "article"
	FeedPodcast    FeedType = "podcast"
	FeedNewsletter FeedType = "newsletter"
)

// Valid reports whether t is one of the known feed types.
func (t FeedType) Valid() bool {
	switch t {
	case FeedVideo, FeedArticle, FeedPodcast, FeedNewsletter:
		return true
	}
	return false
}

// ContentCard is a client, project or IP showcase entry.
type ContentCard struct {
	Slug        string            `json:"slug" yaml:"slug"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	MediaURLs   []string          `json:"mediaUrls" yaml:"mediaUrls"`
	MediaKeys   []string          `json:"-" yaml:"mediaKeys"`
	Category    string            `json:"category" yaml:"category"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags"`
	Metrics     map[string]string `json:"metrics,omitempty" yaml:"metrics"`
	Variant     Variant           `json:"variant" yaml:"variant"`
	Style       *Style            `json:"style,omitempty" yaml:"-"`
}

// FeedItem is one editorial entry. Items from the seed catalog and from
// feedsync share the same shape.
type FeedItem struct {
	ID      string    `json:"id" yaml:"id" bson:"id"`
	Date    time.Time `json:"date" yaml:"date" bson:"date"`
	Title   string    `json:"title" yaml:"title" bson:"title"`
	Type    FeedType  `json:"type" yaml:"type" bson:"type"`
	Summary string    `json:"summary,omitempty" yaml:"summary" bson:"summary,omitempty"`
	Authors []string  `json:"authors,omitempty" yaml:"authors" bson:"authors,omitempty"`
	Topics  []string  `json:"topics,omitempty" yaml:"topics" bson:"topics,omitempty"`
	Link    string    `json:"link" yaml:"link" bson:"link"`
	// Origin is the feed URL an imported item came from; empty for seed items.
	Origin string `json:"-" yaml:"-" bson:"origin,omitempty"`
}

type Event struct {
	Slug     string    `json:"slug" yaml:"slug"`
	Name     string    `json:"name" yaml:"name"`
	StartsAt time.Time `json:"startsAt" yaml:"startsAt"`
	Location string    `json:"location" yaml:"location"`
	URL      string    `json:"url,omitempty" yaml:"url"`
}

type PricingPlan struct {
	Name     string   `json:"name" yaml:"name"`
	Price    string   `json:"price" yaml:"price"`
	Features []string `json:"features" yaml:"features"`
}
