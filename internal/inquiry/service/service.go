package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/halcyonmedia/site-services/internal/apierr"
	"github.com/halcyonmedia/site-services/internal/config"
	"github.com/halcyonmedia/site-services/internal/inquiry"
	"github.com/halcyonmedia/site-services/internal/inquiry/repository"
	"github.com/halcyonmedia/site-services/pkg/logger"
	"github.com/halcyonmedia/site-services/pkg/metrics"
)

// ErrNotDelivered means the inquiry was neither stored nor forwarded.
var ErrNotDelivered = errors.New("inquiry could not be delivered")

// Service accepts inquiries, stores them and forwards them to the webhook.
type Service struct {
	repo       repository.Repository
	webhookURL string
	token      string
	client     *http.Client
	now        func() time.Time
}

func New(repo repository.Repository, cfg config.InquiryConfig, client *http.Client) *Service {
	if client == nil {
		client = http.DefaultClient
	}
	return &Service{
		repo:       repo,
		webhookURL: cfg.WebhookURL,
		token:      cfg.WebhookToken,
		client:     client,
		now:        time.Now,
	}
}

// Submit assigns an id, persists in and forwards it. Persistence failures are
// logged and do not fail the request when the webhook accepted the inquiry.
// A non-2xx webhook answer is returned as *apierr.UpstreamError.
func (s *Service) Submit(ctx context.Context, in *inquiry.Inquiry) (string, error) {
	in.ID = uuid.NewString()
	in.CreatedAt = s.now().UTC()
	in.Forwarded = false

	stored := true
	if err := s.repo.Create(ctx, in); err != nil {
		stored = false
		logger.Errorf("store inquiry %s: %v", in.ID, err)
	}

	if s.webhookURL == "" {
		if !stored {
			metrics.InquiryRelay.WithLabelValues("failed").Inc()
			return "", ErrNotDelivered
		}
		metrics.InquiryRelay.WithLabelValues("stored").Inc()
		return in.ID, nil
	}

	if err := s.forward(ctx, in); err != nil {
		metrics.InquiryRelay.WithLabelValues("failed").Inc()
		return "", err
	}
	metrics.InquiryRelay.WithLabelValues("forwarded").Inc()
	in.Forwarded = true
	if stored {
		if err := s.repo.MarkForwarded(ctx, in.ID); err != nil {
			logger.Warnf("mark inquiry %s forwarded: %v", in.ID, err)
		}
	}
	return in.ID, nil
}

func (s *Service) List(ctx context.Context) ([]*inquiry.Inquiry, error) {
	return s.repo.List(ctx)
}

func (s *Service) forward(ctx context.Context, in *inquiry.Inquiry) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("forward inquiry: %w", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.UpstreamError{
			Service: "webhook",
			Status:  resp.StatusCode,
			Message: apierr.MessageFromBody(b, "Failed to submit inquiry"),
		}
	}
	return nil
}
