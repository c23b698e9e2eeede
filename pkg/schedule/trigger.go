// Package schedule emits the periodic signal that tells the dispatch service
// to evaluate stored notifications and send pushes.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/monesting/notification-store/pkg/metrics"
)

const pushPath = "notifications/push"

// TriggerOptions configures a Trigger
type TriggerOptions struct {
	// BaseURL of the dispatch service. The push endpoint is resolved below it.
	BaseURL string
	// Secret is sent as the bearer token
	Secret string
	// Timeout bounds each attempt
	Timeout time.Duration
	// Retries is the number of extra attempts after a transport failure
	Retries int
	// RetryBackoff is multiplied by the attempt number between attempts
	RetryBackoff time.Duration
	// Client overrides the HTTP client, mainly for tests
	Client *http.Client
}

// Trigger calls the dispatch service's push endpoint. It keeps no state
// between firings.
type Trigger struct {
	endpoint string
	secret   string
	timeout  time.Duration
	retries  int
	backoff  time.Duration
	client   *http.Client
	logger   *zap.Logger
}

// NewTrigger resolves the push endpoint and returns a Trigger
func NewTrigger(opts TriggerOptions, logger *zap.Logger) (*Trigger, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid dispatch url %q", opts.BaseURL)
	}
	endpoint := base.JoinPath(pushPath).String()

	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	return &Trigger{
		endpoint: endpoint,
		secret:   opts.Secret,
		timeout:  opts.Timeout,
		retries:  opts.Retries,
		backoff:  opts.RetryBackoff,
		client:   client,
		logger:   logger.With(zap.String("endpoint", endpoint)),
	}, nil
}

// Endpoint returns the resolved push URL
func (t *Trigger) Endpoint() string {
	return t.endpoint
}

// Fire performs one firing. Failures are logged and counted, never returned.
// Any HTTP response counts as delivered regardless of its status; only
// transport failures are retried.
func (t *Trigger) Fire(ctx context.Context) {
	start := time.Now()

	var err error
	for attempt := 0; attempt <= t.retries; attempt++ {
		if attempt > 0 {
			if !t.wait(ctx, attempt) {
				err = errors.Join(err, ctx.Err())
				break
			}
		}

		var status int
		status, err = t.post(ctx)
		if err == nil {
			metrics.TriggerFirings.WithLabelValues(metrics.ResultOK).Inc()
			t.logger.Info("dispatch triggered",
				zap.Int("status", status),
				zap.Int("attempt", attempt+1),
				zap.Duration("latency", time.Since(start)),
			)
			return
		}

		t.logger.Warn("dispatch trigger attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	metrics.TriggerFirings.WithLabelValues(metrics.ResultError).Inc()
	t.logger.Error("dispatch trigger failed",
		zap.Int("attempts", t.retries+1),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
}

func (t *Trigger) post(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.secret)

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (t *Trigger) wait(ctx context.Context, attempt int) bool {
	if t.backoff <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(t.backoff * time.Duration(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
