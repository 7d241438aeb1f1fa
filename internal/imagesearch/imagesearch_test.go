// README: Image search provider and decorator tests.
package imagesearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"voyager/internal/retry"
)

var noDelay = retry.Policy{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

func TestUnsplashSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "Taj Exotica Goa", r.URL.Query().Get("query"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Client-ID key-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://images.example/taj.jpg","small":"x"}}]}`))
	}))
	defer srv.Close()

	got, err := NewUnsplash(srv.URL, "key-123").Search(context.Background(), "Taj Exotica Goa")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/taj.jpg", got)
}

func TestUnsplashNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	got, err := NewUnsplash(srv.URL, "k").Search(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnsplashRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"urls":{"regular":"https://images.example/ok.jpg"}}]}`))
	}))
	defer srv.Close()

	got, err := NewUnsplash(srv.URL, "k", WithRetryPolicy(noDelay)).Search(context.Background(), "goa")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/ok.jpg", got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestUnsplashClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewUnsplash(srv.URL, "k", WithRetryPolicy(noDelay)).Search(context.Background(), "goa")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestUnsplashBlankQuerySkipsCall(t *testing.T) {
	got, err := NewUnsplash("http://127.0.0.1:1", "k").Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlacesSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/textsearch/json"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"name":"No photo","photos":[]},
			{"name":"Palm Inn","photos":[{"photo_reference":"ref-42","width":800,"height":600}]}
		]}`))
	}))
	defer srv.Close()

	p, err := NewPlaces("maps-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	got, err := p.Search(context.Background(), "Palm Inn Goa")
	require.NoError(t, err)
	assert.Contains(t, got, placePhotoURL)
	assert.Contains(t, got, "photo_reference=ref-42")
	assert.Contains(t, got, "maxwidth=1080")
}

type countingSearcher struct {
	calls int32
	url   string
	err   error
}

func (c *countingSearcher) Search(context.Context, string) (string, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.url, c.err
}

func TestCachedServesRepeatQueries(t *testing.T) {
	inner := &countingSearcher{url: "https://img/goa.jpg"}
	s := NewCached(inner, NewMemoryCache(time.Minute), time.Minute, nil)

	for _, q := range []string{"Goa", " goa ", "GOA"} {
		got, err := s.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, "https://img/goa.jpg", got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
}

func TestCachedDoesNotStoreMisses(t *testing.T) {
	inner := &countingSearcher{}
	s := NewCached(inner, NewMemoryCache(time.Minute), time.Minute, nil)

	_, _ = s.Search(context.Background(), "void")
	_, _ = s.Search(context.Background(), "void")
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))

	inner.err = errors.New("down")
	_, err := s.Search(context.Background(), "void")
	assert.Error(t, err)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("VOYAGER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("VOYAGER_TEST_REDIS_ADDR not set; skipping Redis tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	c := NewRedisCache(client)
	ctx := context.Background()
	key := cacheKey("redis-test-" + time.Now().String())

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, "https://img/x.jpg", time.Minute))
	v, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://img/x.jpg", v)
}

func TestLimitedHonoursContext(t *testing.T) {
	inner := &countingSearcher{url: "u"}
	l := NewLimited(inner, 0.001, 1)

	_, err := l.Search(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Search(ctx, "second")
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
}

func TestLimitedUnlimitedWhenRateUnset(t *testing.T) {
	inner := &countingSearcher{url: "u"}
	l := NewLimited(inner, 0, 0)
	for i := 0; i < 50; i++ {
		_, err := l.Search(context.Background(), "q")
		require.NoError(t, err)
	}
}
