package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/atravisjones/Arizona-Roofers-Scheduler/errors"
	"github.com/atravisjones/Arizona-Roofers-Scheduler/fetcher"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// sequenceHandler serves the given statuses in order, repeating the last one.
func sequenceHandler(statuses []int) (http.HandlerFunc, *atomic.Int32) {
	var calls atomic.Int32
	return func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
		_, _ = w.Write([]byte("{}"))
	}, &calls
}

func newFetcher(maxRetries int, delays *[]time.Duration) *fetcher.Fetcher {
	f := fetcher.New(maxRetries, 10*time.Millisecond, zerolog.Nop())
	f.Sleep = func(d time.Duration) {
		*delays = append(*delays, d)
	}
	return f
}

func TestGet(t *testing.T) {
	tests := map[string]struct {
		statuses       []int
		maxRetries     int
		expectedStatus int
		expectedDelays []time.Duration
		expectedCalls  int32
	}{
		"Success_FirstAttempt": {
			statuses:       []int{http.StatusOK},
			maxRetries:     3,
			expectedStatus: http.StatusOK,
			expectedDelays: nil,
			expectedCalls:  1,
		},
		"ServerErrors_ThenSuccess_DoublingDelays": {
			statuses:       []int{http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusOK},
			maxRetries:     3,
			expectedStatus: http.StatusOK,
			expectedDelays: []time.Duration{10 * time.Millisecond, 20 * time.Millisecond},
			expectedCalls:  3,
		},
		"ClientError_ReturnedImmediately": {
			statuses:       []int{http.StatusForbidden},
			maxRetries:     3,
			expectedStatus: http.StatusForbidden,
			expectedDelays: nil,
			expectedCalls:  1,
		},
		"NotFound_ReturnedImmediately": {
			statuses:       []int{http.StatusNotFound},
			maxRetries:     3,
			expectedStatus: http.StatusNotFound,
			expectedDelays: nil,
			expectedCalls:  1,
		},
		"Exhaustion_ReturnsLastFailingResponse": {
			statuses:       []int{http.StatusServiceUnavailable},
			maxRetries:     2,
			expectedStatus: http.StatusServiceUnavailable,
			expectedDelays: []time.Duration{10 * time.Millisecond, 20 * time.Millisecond},
			expectedCalls:  3,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			handler, calls := sequenceHandler(tt.statuses)
			srv := httptest.NewServer(handler)
			defer srv.Close()

			var delays []time.Duration
			f := newFetcher(tt.maxRetries, &delays)

			resp, err := f.Get(context.Background(), srv.URL)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedDelays, delays)
			assert.Equal(t, tt.expectedCalls, calls.Load())
			resp.Body.Close()
		})
	}
}

func TestGet_TransportFailureRaisesUnreachable(t *testing.T) {
	// A server that is already closed produces connection errors.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var delays []time.Duration
	f := newFetcher(2, &delays)

	resp, err := f.Get(context.Background(), url)
	assert.Nil(t, resp)
	assert.Error(t, err)

	var unreachable *apperrors.Unreachable
	assert.True(t, errors.As(err, &unreachable))
	assert.Equal(t, 3, unreachable.Attempts)
	assert.Len(t, delays, 2)
}

func TestCheckStatus(t *testing.T) {
	handler, _ := sequenceHandler([]int{http.StatusBadGateway})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	var delays []time.Duration
	f := newFetcher(0, &delays)

	resp, err := f.Get(context.Background(), srv.URL)
	assert.NoError(t, err)

	err = fetcher.CheckStatus(resp)
	var refusal *apperrors.RemoteRefusal
	assert.True(t, errors.As(err, &refusal))
	assert.Equal(t, http.StatusBadGateway, refusal.Status)
}
