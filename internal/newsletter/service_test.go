package newsletter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmedia/site-services/pkg/metrics"
)

type stubProvider struct {
	name  string
	err   error
	panic bool
	delay time.Duration
	calls int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Subscribe(ctx context.Context, email string) error {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panic {
		panic("boom")
	}
	return s.err
}

func TestSubscribeValidation(t *testing.T) {
	p := &stubProvider{name: "storage"}
	svc := NewService(p)
	for _, in := range []string{"", "   "} {
		_, err := svc.Subscribe(context.Background(), in)
		require.ErrorIs(t, err, ErrEmailRequired)
	}
	for _, in := range []string{"not-an-email", "user@", "user@example", "@example.com", "a b@example.com"} {
		_, err := svc.Subscribe(context.Background(), in)
		require.ErrorIs(t, err, ErrInvalidEmail, in)
	}
	require.Zero(t, atomic.LoadInt32(&p.calls))
}

func TestSubscribeNotConfigured(t *testing.T) {
	_, err := NewService().Subscribe(context.Background(), "user@example.com")
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestSubscribeAllHealthy(t *testing.T) {
	svc := NewService(&stubProvider{name: "storage"}, &stubProvider{name: "mailchimp"})
	res, err := svc.Subscribe(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.True(t, res.OK)
	require.Empty(t, res.Warnings)
	require.Equal(t, []string{"storage", "mailchimp"}, res.Attempted)
}

func TestSubscribePartialFailure(t *testing.T) {
	cases := []struct {
		name     string
		storage  *stubProvider
		mailchimp *stubProvider
		warnOn   string
	}{
		{"storage fails", &stubProvider{name: "storage", err: errors.New("storage returned 503")}, &stubProvider{name: "mailchimp"}, "storage"},
		{"mailchimp fails", &stubProvider{name: "storage"}, &stubProvider{name: "mailchimp", err: errors.New("bad key")}, "mailchimp"},
		{"mailchimp panics", &stubProvider{name: "storage"}, &stubProvider{name: "mailchimp", panic: true}, "mailchimp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewService(tc.storage, tc.mailchimp).Subscribe(context.Background(), "user@example.com")
			require.NoError(t, err)
			require.True(t, res.OK)
			require.Len(t, res.Warnings, 1)
			require.Contains(t, res.Warnings[0], tc.warnOn)
			require.Nil(t, res.Details)
		})
	}
}

func TestSubscribeTotalFailure(t *testing.T) {
	svc := NewService(
		&stubProvider{name: "storage", err: errors.New("storage returned 500: down")},
		&stubProvider{name: "mailchimp", panic: true},
	)
	res, err := svc.Subscribe(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Equal(t, "storage returned 500: down", res.Details["storage"])
	require.Contains(t, res.Details["mailchimp"], "panicked")
}

func TestSubscribeWaitsForSlowProvider(t *testing.T) {
	slow := &stubProvider{name: "mailchimp", delay: 50 * time.Millisecond, err: errors.New("late failure")}
	res, err := NewService(&stubProvider{name: "storage"}, slow).Subscribe(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&slow.calls))
	require.Len(t, res.Warnings, 1)
}

func TestSubscribeRecordsMetrics(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.NewsletterProvider.WithLabelValues("metrics-ok", "ok"))
	failBefore := testutil.ToFloat64(metrics.NewsletterProvider.WithLabelValues("metrics-bad", "failed"))

	_, err := NewService(&stubProvider{name: "metrics-ok"}, &stubProvider{name: "metrics-bad", err: errors.New("x")}).
		Subscribe(context.Background(), "user@example.com")
	require.NoError(t, err)

	require.Equal(t, okBefore+1, testutil.ToFloat64(metrics.NewsletterProvider.WithLabelValues("metrics-ok", "ok")))
	require.Equal(t, failBefore+1, testutil.ToFloat64(metrics.NewsletterProvider.WithLabelValues("metrics-bad", "failed")))
}
