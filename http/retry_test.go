package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/leadbook"
	leadbookhttp "github.com/fwojciec/leadbook/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearcher_Retry(t *testing.T) {
	t.Parallel()

	shortDelays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	t.Run("succeeds after transient server errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[{"name": "Corner Cafe"}]`))
		}))
		defer server.Close()

		var logs bytes.Buffer
		searcher := leadbookhttp.NewSearcher(server.URL,
			leadbookhttp.WithRetryDelays(shortDelays),
			leadbookhttp.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		)

		results, err := searcher.Search(context.Background(), springfield)
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, int32(3), calls.Load())
		assert.Contains(t, logs.String(), "attempt=2")
		assert.Contains(t, logs.String(), "attempt=3")
	})

	t.Run("retries rate limited responses", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		searcher := leadbookhttp.NewSearcher(server.URL, leadbookhttp.WithRetryDelays(shortDelays))

		_, err := searcher.Search(context.Background(), springfield)
		require.NoError(t, err)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("returns the last error after exhausting retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "Overpass unavailable"}`))
		}))
		defer server.Close()

		searcher := leadbookhttp.NewSearcher(server.URL, leadbookhttp.WithRetryDelays(shortDelays))

		_, err := searcher.Search(context.Background(), springfield)
		require.Error(t, err)
		assert.Equal(t, "Overpass unavailable", leadbook.ErrorMessage(err))
		assert.Equal(t, int32(4), calls.Load(), "one attempt plus one per delay")
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		searcher := leadbookhttp.NewSearcher(server.URL, leadbookhttp.WithRetryDelays(shortDelays))

		_, err := searcher.Search(context.Background(), springfield)
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("stops when the context is canceled during backoff", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		searcher := leadbookhttp.NewSearcher(server.URL, leadbookhttp.WithRetryDelays([]time.Duration{time.Hour}))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := searcher.Search(ctx, springfield)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}
