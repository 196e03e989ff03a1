package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/marksuguitan/beautrafil-scrape/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Fetcher implements beautrafil.Fetcher.
var _ beautrafil.Fetcher = (*http.Fetcher)(nil)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns page body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			_, _ = w.Write([]byte("<html><body>static page</body></html>"))
		}))
		defer srv.Close()

		f, err := http.NewFetcher()
		require.NoError(t, err)
		defer f.Close()

		doc, err := f.Fetch(context.Background(), &beautrafil.FetchRequest{URL: srv.URL})
		require.NoError(t, err)
		assert.Contains(t, doc.HTML, "static page")
		assert.False(t, doc.Blocked)
		assert.Equal(t, 0, doc.Attempts)
	})

	t.Run("sends pooled user agent when stealth requested", func(t *testing.T) {
		t.Parallel()

		var agent string
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			agent = r.UserAgent()
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer srv.Close()

		f, err := http.NewFetcher()
		require.NoError(t, err)

		_, err = f.Fetch(context.Background(), &beautrafil.FetchRequest{URL: srv.URL, Stealth: true})
		require.NoError(t, err)
		assert.Contains(t, agent, "Chrome/124")
	})

	t.Run("retries blocked request with rotated agent", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		var retryAgent, retryCache string
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(nethttp.StatusForbidden)
				_, _ = w.Write([]byte("denied"))
				return
			}
			retryAgent = r.UserAgent()
			retryCache = r.Header.Get("Cache-Control")
			_, _ = w.Write([]byte("<html>welcome back</html>"))
		}))
		defer srv.Close()

		f, err := http.NewFetcher(http.WithBackoffBase(time.Millisecond))
		require.NoError(t, err)

		doc, err := f.Fetch(context.Background(), &beautrafil.FetchRequest{
			URL:        srv.URL,
			RetryOn403: true,
		})
		require.NoError(t, err)

		assert.Contains(t, doc.HTML, "welcome back")
		assert.False(t, doc.Blocked)
		assert.Equal(t, 1, doc.Attempts)
		assert.Contains(t, retryAgent, "Chrome/124")
		assert.Equal(t, "no-cache", retryCache)
	})

	t.Run("reports exhausted retries with blocked flag", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusForbidden)
			_, _ = w.Write([]byte("access denied"))
		}))
		defer srv.Close()

		f, err := http.NewFetcher(http.WithBackoffBase(time.Millisecond))
		require.NoError(t, err)

		doc, err := f.Fetch(context.Background(), &beautrafil.FetchRequest{
			URL:        srv.URL,
			RetryOn403: true,
			MaxRetries: 2,
		})
		require.NoError(t, err)

		assert.True(t, doc.Blocked)
		assert.Equal(t, 2, doc.Attempts)
		assert.Contains(t, doc.HTML, "access denied")
	})

	t.Run("403 without retry opt-in returns last body unblocked", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			hits.Add(1)
			w.WriteHeader(nethttp.StatusForbidden)
			_, _ = w.Write([]byte("denied"))
		}))
		defer srv.Close()

		f, err := http.NewFetcher()
		require.NoError(t, err)

		doc, err := f.Fetch(context.Background(), &beautrafil.FetchRequest{URL: srv.URL})
		require.NoError(t, err)
		assert.Equal(t, int64(1), hits.Load())
		assert.False(t, doc.Blocked)
	})

	t.Run("returns error for server failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.WriteHeader(nethttp.StatusInternalServerError)
		}))
		defer srv.Close()

		f, err := http.NewFetcher()
		require.NoError(t, err)

		_, err = f.Fetch(context.Background(), &beautrafil.FetchRequest{URL: srv.URL})
		require.Error(t, err)
		assert.Equal(t, beautrafil.ENAVIGATION, beautrafil.ErrorCode(err))
	})

	t.Run("returns error for invalid request", func(t *testing.T) {
		t.Parallel()

		f, err := http.NewFetcher()
		require.NoError(t, err)

		_, err = f.Fetch(context.Background(), &beautrafil.FetchRequest{})
		require.Error(t, err)
		assert.Equal(t, beautrafil.EINVALID, beautrafil.ErrorCode(err))
	})
}
