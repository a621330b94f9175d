// Package newsletter registers an email address with every configured signup
// provider and aggregates their outcomes.
package newsletter

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/halcyonmedia/site-services/internal/apierr"
	"github.com/halcyonmedia/site-services/internal/config"
	"github.com/halcyonmedia/site-services/pkg/logger"
)

// Provider is one external signup destination.
type Provider interface {
	Name() string
	Subscribe(ctx context.Context, email string) error
}

// ProvidersFromConfig builds the providers whose credentials are present.
// A provider with missing credentials is simply not returned.
func ProvidersFromConfig(cfg config.NewsletterConfig, client *http.Client) []Provider {
	var out []Provider
	if cfg.StorageEnabled() {
		out = append(out, &StorageProvider{
			Endpoint: cfg.StorageURL,
			APIKey:   cfg.StorageKey,
			Source:   cfg.Source,
			Client:   client,
		})
	}
	if cfg.MailchimpEnabled() {
		out = append(out, &MarketingProvider{
			BaseURL: fmt.Sprintf("https://%s.api.mailchimp.com/3.0", cfg.ServerPrefix),
			APIKey:  cfg.MailchimpKey,
			ListID:  cfg.ListID,
			Tags:    cfg.Tags,
			Client:  client,
		})
	}
	return out
}

// StorageProvider writes subscribers to the centralized storage API.
type StorageProvider struct {
	Endpoint string
	APIKey   string
	Source   string
	Client   *http.Client
	// Now is overridable in tests.
	Now func() time.Time
}

func (p *StorageProvider) Name() string { return "storage" }

func (p *StorageProvider) Subscribe(ctx context.Context, email string) error {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	body := map[string]string{
		"email":        email,
		"source":       p.Source,
		"subscribedAt": now().UTC().Format(time.RFC3339),
	}
	req, err := jsonRequest(ctx, http.MethodPost, p.Endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	_, err = do(clientOr(p.Client), req, p.Name())
	return err
}

// memberExistsTitle is the error class the marketing platform uses for an
// address that is already on the list.
const memberExistsTitle = "Member Exists"

// MarketingProvider talks to a Mailchimp-style members API.
type MarketingProvider struct {
	BaseURL string
	APIKey  string
	ListID  string
	Tags    []string
	Client  *http.Client
}

func (p *MarketingProvider) Name() string { return "mailchimp" }

func (p *MarketingProvider) Subscribe(ctx context.Context, email string) error {
	body := map[string]interface{}{
		"email_address": email,
		"status":        "subscribed",
		"tags":          p.tagNames(),
	}
	req, err := jsonRequest(ctx, http.MethodPost, p.membersURL(), body)
	if err != nil {
		return err
	}
	req.SetBasicAuth("anystring", p.APIKey)
	_, err = do(clientOr(p.Client), req, p.Name())
	if err == nil {
		return nil
	}
	var ue *apierr.UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusBadRequest || ue.Title != memberExistsTitle {
		return err
	}
	logger.Infow("address already subscribed, updating tags", "provider", p.Name())
	return p.updateTags(ctx, email)
}

func (p *MarketingProvider) updateTags(ctx context.Context, email string) error {
	tags := make([]map[string]string, 0, len(p.Tags))
	for _, t := range p.tagNames() {
		tags = append(tags, map[string]string{"name": t, "status": "active"})
	}
	url := p.membersURL() + "/" + SubscriberHash(email) + "/tags"
	req, err := jsonRequest(ctx, http.MethodPost, url, map[string]interface{}{"tags": tags})
	if err != nil {
		return err
	}
	req.SetBasicAuth("anystring", p.APIKey)
	if _, err := do(clientOr(p.Client), req, p.Name()); err != nil {
		return fmt.Errorf("update tags: %w", err)
	}
	return nil
}

func (p *MarketingProvider) membersURL() string {
	return strings.TrimRight(p.BaseURL, "/") + "/lists/" + p.ListID + "/members"
}

func (p *MarketingProvider) tagNames() []string {
	if p.Tags == nil {
		return []string{}
	}
	return p.Tags
}

// SubscriberHash is the member id the marketing platform derives from an
// address: the hex MD5 of the lowercased email.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func jsonRequest(ctx context.Context, method, url string, v interface{}) (*http.Request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends req and turns any non-2xx answer into an *apierr.UpstreamError.
// Non-JSON error bodies fall back to the HTTP status text.
func do(client *http.Client, req *http.Request, service string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", service, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &apierr.UpstreamError{
			Service: service,
			Status:  resp.StatusCode,
			Message: apierr.MessageFromBody(body, http.StatusText(resp.StatusCode)),
			Title:   apierr.TitleFromBody(body),
		}
	}
	return body, nil
}

func clientOr(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
