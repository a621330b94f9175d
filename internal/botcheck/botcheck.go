// Package botcheck verifies challenge tokens issued by the bot-detection
// widget embedded in site forms.
package botcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/halcyonmedia/site-services/pkg/logger"
)

const (
	DefaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	// HeaderName carries the widget token on form posts.
	HeaderName = "X-Bot-Token"
)

var ErrMissingToken = errors.New("bot check token missing")

// Verifier calls the provider's siteverify endpoint.
type Verifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// New returns nil when secret is empty, which disables checking.
func New(secret, verifyURL string, client *http.Client) *Verifier {
	if secret == "" {
		return nil
	}
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Verifier{secret: secret, verifyURL: verifyURL, client: client}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify reports whether token is valid for remoteIP.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if token == "" {
		return false, ErrMissingToken
	}
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("siteverify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("siteverify returned %d", resp.StatusCode)
	}
	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("siteverify decode: %w", err)
	}
	if !out.Success {
		logger.Debugf("bot check rejected: %v", out.ErrorCodes)
	}
	return out.Success, nil
}

// Middleware rejects requests whose X-Bot-Token does not verify. A nil
// verifier lets every request through.
func Middleware(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.Next()
			return
		}
		ok, err := v.Verify(c.Request.Context(), c.GetHeader(HeaderName), c.ClientIP())
		if err != nil && !errors.Is(err, ErrMissingToken) {
			logger.Warnf("bot check failed: %v", err)
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Bot verification failed"})
			return
		}
		c.Next()
	}
}
