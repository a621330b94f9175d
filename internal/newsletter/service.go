package newsletter

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/halcyonmedia/site-services/pkg/logger"
	"github.com/halcyonmedia/site-services/pkg/metrics"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrNotConfigured = errors.New("newsletter signup is not configured")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Result aggregates the outcome of one signup across providers.
type Result struct {
	OK bool
	// Warnings names the providers that failed when at least one succeeded.
	Warnings []string
	// Details maps provider name to its error message. Set on total failure.
	Details map[string]string
	// Attempted lists the providers that were called, in configuration order.
	Attempted []string
}

// Service fans a signup out to its providers.
type Service struct {
	providers []Provider
}

func NewService(providers ...Provider) *Service {
	return &Service{providers: providers}
}

// Providers returns the names of the enabled providers.
func (s *Service) Providers() []string {
	out := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p.Name())
	}
	return out
}

// Subscribe validates email and calls every provider concurrently. It waits
// for all of them to settle; one provider failing or panicking never stops
// the others. The returned error is only set for input or configuration
// problems, never for provider failures.
func (s *Service) Subscribe(ctx context.Context, email string) (Result, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Result{}, ErrEmailRequired
	}
	if !ValidEmail(email) {
		return Result{}, ErrInvalidEmail
	}
	if len(s.providers) == 0 {
		return Result{}, ErrNotConfigured
	}

	outcomes := make([]error, len(s.providers))
	var g errgroup.Group
	for i, p := range s.providers {
		g.Go(func() error {
			outcomes[i] = call(ctx, p, email)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Attempted: s.Providers()}
	failed := map[string]string{}
	for i, p := range s.providers {
		if err := outcomes[i]; err != nil {
			failed[p.Name()] = err.Error()
			metrics.NewsletterProvider.WithLabelValues(p.Name(), "failed").Inc()
			logger.Warnw("newsletter provider failed", "provider", p.Name(), "error", err.Error())
			continue
		}
		metrics.NewsletterProvider.WithLabelValues(p.Name(), "ok").Inc()
		res.OK = true
	}
	if !res.OK {
		res.Details = failed
		return res, nil
	}
	for _, p := range s.providers {
		if msg, ok := failed[p.Name()]; ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s signup failed: %s", p.Name(), msg))
		}
	}
	return res, nil
}

func call(ctx context.Context, p Provider, email string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", p.Name(), r)
		}
	}()
	return p.Subscribe(ctx, email)
}
