package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"wattfeed/internal/logger"

	"github.com/stretchr/testify/require"
)

type recordedSleeps struct {
	waits []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func newTestClient(sleeps *recordedSleeps) *Client {
	return NewClient(Options{
		MaxAttempts: 3,
		Sleep:       sleeps.sleep,
		Logger:      logger.Discard(),
	})
}

// statusSequence serves the given statuses in order, repeating the last one
func statusSequence(t *testing.T, headers http.Header, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		for k, vs := range headers {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.WriteHeader(statuses[idx])
		_, _ = w.Write([]byte("body"))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGetSuccess(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	sleeps := &recordedSleeps{}
	body, err := newTestClient(sleeps).Get(context.Background(), srv.URL, url.Values{"date": {"2026-02-28"}})
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, string(body))
	require.Equal(t, "2026-02-28", gotQuery.Get("date"))
	require.Empty(t, sleeps.waits)
}

func TestGetRetryPolicy(t *testing.T) {
	tests := []struct {
		name        string
		statuses    []int
		headers     http.Header
		wantErr     bool
		wantStatus  int
		wantCalls   int32
		wantWaits   []time.Duration
		wantAttempt int
	}{
		{
			name:      "server error then success",
			statuses:  []int{http.StatusServiceUnavailable, http.StatusOK},
			wantCalls: 2,
			wantWaits: []time.Duration{time.Second},
		},
		{
			name:      "exponential backoff on 5xx",
			statuses:  []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusOK},
			wantCalls: 3,
			wantWaits: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:      "rate limited with retry-after",
			statuses:  []int{http.StatusTooManyRequests, http.StatusOK},
			headers:   http.Header{"Retry-After": {"7"}},
			wantCalls: 2,
			wantWaits: []time.Duration{7 * time.Second},
		},
		{
			name:      "rate limited without retry-after",
			statuses:  []int{http.StatusTooManyRequests, http.StatusOK},
			wantCalls: 2,
			wantWaits: []time.Duration{DefaultRetryAfter},
		},
		{
			name:        "non-retryable status fails immediately",
			statuses:    []int{http.StatusNotFound},
			wantErr:     true,
			wantStatus:  http.StatusNotFound,
			wantCalls:   1,
			wantAttempt: 1,
		},
		{
			name:        "unauthorized fails immediately",
			statuses:    []int{http.StatusUnauthorized},
			wantErr:     true,
			wantStatus:  http.StatusUnauthorized,
			wantCalls:   1,
			wantAttempt: 1,
		},
		{
			name:        "exhausted retries report final status",
			statuses:    []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusBadGateway},
			wantErr:     true,
			wantStatus:  http.StatusBadGateway,
			wantCalls:   3,
			wantWaits:   []time.Duration{time.Second, 2 * time.Second},
			wantAttempt: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := statusSequence(t, tt.headers, tt.statuses...)
			sleeps := &recordedSleeps{}

			body, err := newTestClient(sleeps).Get(context.Background(), srv.URL, nil)

			require.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
			require.Equal(t, tt.wantWaits, sleeps.waits)
			if !tt.wantErr {
				require.NoError(t, err)
				require.Equal(t, "body", string(body))
				return
			}

			require.Error(t, err)
			require.ErrorIs(t, err, ErrTransport)
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			require.Equal(t, tt.wantStatus, httpErr.StatusCode)
			require.Equal(t, tt.wantAttempt, httpErr.Attempts)
		})
	}
}

func TestGetNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	sleeps := &recordedSleeps{}
	_, err := newTestClient(sleeps).Get(context.Background(), addr, url.Values{"securityToken": {"s3cret"}})
	require.ErrorIs(t, err, ErrTransport)
	require.NotContains(t, err.Error(), "s3cret")
	require.Empty(t, sleeps.waits)
}

func TestGetSleepCancelled(t *testing.T) {
	srv, calls := statusSequence(t, nil, http.StatusServiceUnavailable)
	client := NewClient(Options{
		Sleep: func(ctx context.Context, d time.Duration) error {
			return context.Canceled
		},
		Logger: logger.Discard(),
	})

	_, err := client.Get(context.Background(), srv.URL, nil)
	require.ErrorIs(t, err, ErrTransport)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestRedact(t *testing.T) {
	got := Redact("https://example.test/api", url.Values{
		"securityToken": {"s3cret"},
		"documentType":  {"A44"},
	})
	require.NotContains(t, got, "s3cret")
	require.Contains(t, got, "securityToken=REDACTED")
	require.Contains(t, got, "documentType=A44")
}

func TestRetryAfter(t *testing.T) {
	require.Equal(t, DefaultRetryAfter, retryAfter(""))
	require.Equal(t, DefaultRetryAfter, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
	require.Equal(t, 3*time.Second, retryAfter("3"))
}

func TestNewLimiter(t *testing.T) {
	require.Nil(t, NewLimiter(0, 1))
	l := NewLimiter(2, 0)
	require.NotNil(t, l)
	require.Equal(t, 1, l.Burst())
}
