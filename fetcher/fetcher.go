// Package fetcher performs HTTP retrieval over unreliable transport with
// bounded retry and exponential backoff.
//
// The policy is two-tiered: a response whose status is below 500 and not 429
// is handed back immediately, even when it is a client error, and callers
// must inspect the status themselves. Server errors and rate limiting are
// retried; once retries are exhausted the last failing response is still
// returned rather than raised. Only transport-level failures, where the
// remote never answered at all, surface as an error.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/metrics"
	"github.com/rs/zerolog"
)

// Fetcher applies the retry policy on top of an http.Client.
type Fetcher struct {
	Client       *http.Client
	MaxRetries   int
	InitialDelay time.Duration
	Logger       zerolog.Logger

	// Sleep is swapped out in tests to observe backoff delays.
	Sleep func(time.Duration)
}

// New creates a Fetcher with the given retry budget.
func New(maxRetries int, initialDelay time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		Client:       &http.Client{},
		MaxRetries:   maxRetries,
		InitialDelay: initialDelay,
		Logger:       logger.With().Str("component", "fetcher").Logger(),
		Sleep:        time.Sleep,
	}
}

// Get issues a GET request for url, retrying 5xx, 429 and transport failures
// with doubling delays. See the package comment for the exhaustion behavior.
func (f *Fetcher) Get(ctx context.Context, url string) (*http.Response, error) {
	delay := f.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			f.sleep(delay)
			delay *= 2
			metrics.FetchRetriesTotal.Inc()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := f.client().Do(req)
		if err != nil {
			lastErr = err
			metrics.FetchAttemptsTotal.WithLabelValues("transport_error").Inc()
			if attempt < f.MaxRetries {
				f.Logger.Warn().Err(err).Int("attempt", attempt+1).Dur("next_delay", delay).
					Msg("transport failure, retrying")
			}
			continue
		}

		if !retryable(resp.StatusCode) {
			outcome := "ok"
			if resp.StatusCode >= 400 {
				outcome = "refused"
			}
			metrics.FetchAttemptsTotal.WithLabelValues(outcome).Inc()
			return resp, nil
		}

		metrics.FetchAttemptsTotal.WithLabelValues("retryable").Inc()
		if attempt == f.MaxRetries {
			// Out of retries: hand the failing response back for the caller
			// to inspect.
			return resp, nil
		}
		drain(resp)
		f.Logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).
			Dur("next_delay", delay).Msg("retryable status, backing off")
	}

	return nil, &apperrors.Unreachable{Attempts: f.MaxRetries + 1, Cause: lastErr}
}

// CheckStatus converts a non-2xx response into a RemoteRefusal error and
// closes its body. A nil return means the response is usable.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	drain(resp)
	return &apperrors.RemoteRefusal{Status: resp.StatusCode, URL: url}
}

func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) sleep(d time.Duration) {
	if f.Sleep != nil {
		f.Sleep(d)
		return
	}
	time.Sleep(d)
}
