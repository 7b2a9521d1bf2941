package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func imageServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"/imgcache/deadbeef.jpg","source":"provider","key":"deadbeef"}`))
	}))
}

func TestClient_CoverImage_CachesResult(t *testing.T) {
	var calls atomic.Int64
	server := imageServer(t, &calls)
	defer server.Close()

	c, err := New(server.URL, filepath.Join(t.TempDir(), "images.json"), zap.NewNop())
	require.NoError(t, err)

	ref, err := c.CoverImage(context.Background(), "", "Toronto", "happy", "clear", 800, 520)
	require.NoError(t, err)
	assert.Equal(t, "/imgcache/deadbeef.jpg", ref.URL)
	assert.Equal(t, int64(1), calls.Load())

	// Second identical call is served from the store
	_, err = c.CoverImage(context.Background(), "", "Toronto", "happy", "clear", 800, 520)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	// Different context misses
	_, err = c.CoverImage(context.Background(), "", "Lisbon", "happy", "clear", 800, 520)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestClient_HeroImage_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, err := New(server.URL, filepath.Join(t.TempDir(), "images.json"), zap.NewNop())
	require.NoError(t, err)

	_, err = c.HeroImage(context.Background(), "", "calm", 1600, 900)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_ConcurrentCallsShareOneFetch(t *testing.T) {
	var calls atomic.Int64
	gate := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-gate
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"/imgcache/deadbeef.jpg","source":"provider","key":"deadbeef"}`))
	}))
	defer server.Close()

	c, err := New(server.URL, filepath.Join(t.TempDir(), "images.json"), zap.NewNop())
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := c.CoverImage(context.Background(), "", "Toronto", "happy", "", 800, 520)
			assert.NoError(t, err)
		}()
	}

	// Let all goroutines reach the in-flight request, then release it
	close(gate)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
}
