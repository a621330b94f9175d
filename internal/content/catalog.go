package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the authored site content.
type Catalog struct {
	Cards   []ContentCard `yaml:"cards"`
	Feed    []FeedItem    `yaml:"feed"`
	Events  []Event       `yaml:"events"`
	Pricing []PricingPlan `yaml:"pricing"`
}

// LoadCatalog decodes and validates a catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DefaultCatalog returns the catalog built into the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(catalogYAML))
}

// Validate checks that every record carries its display fields.
func (c *Catalog) Validate() error {
	slugs := map[string]bool{}
	for i, card := range c.Cards {
		if card.Slug == "" || card.Title == "" || card.Description == "" {
			return fmt.Errorf("card %d: slug, title and description are required", i)
		}
		if slugs[card.Slug] {
			return fmt.Errorf("card %q: duplicate slug", card.Slug)
		}
		slugs[card.Slug] = true
		if card.Variant != "" {
			if _, ok := StyleFor(card.Variant); !ok {
				return fmt.Errorf("card %q: unknown variant %q", card.Slug, card.Variant)
			}
		}
	}
	for i, it := range c.Feed {
		if err := ValidateFeedItem(it); err != nil {
			return fmt.Errorf("feed item %d: %w", i, err)
		}
	}
	for i, ev := range c.Events {
		if ev.Slug == "" || ev.Name == "" || ev.StartsAt.IsZero() {
			return fmt.Errorf("event %d: slug, name and startsAt are required", i)
		}
	}
	for i, p := range c.Pricing {
		if p.Name == "" || p.Price == "" {
			return fmt.Errorf("pricing plan %d: name and price are required", i)
		}
	}
	return nil
}

// ValidateFeedItem checks the fields every feed entry must have.
func ValidateFeedItem(it FeedItem) error {
	if it.ID == "" || it.Title == "" || it.Link == "" || it.Date.IsZero() {
		return errors.New("id, title, link and date are required")
	}
	if !it.Type.Valid() {
		return fmt.Errorf("unknown type %q", it.Type)
	}
	return nil
}
