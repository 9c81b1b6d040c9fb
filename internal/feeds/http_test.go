package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Events(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feeds/7", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events":[
			{"start_date":"2025-07-15","end_date":"2025-07-20"},
			{"start_date":"2025-08-01","end_date":"2025-08-03"}
		]}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "secret")
	events, err := source.Events(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, int64(7), events[0].ApartmentID)
	assert.Equal(t, time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC), events[0].StartDate)
	assert.Equal(t, time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC), events[0].EndDate)
	assert.Equal(t, "http", events[0].Source)
}

func TestHTTPSource_Events_BadDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events":[{"start_date":"15.07.2025","end_date":"2025-07-20"}]}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "")
	_, err := source.Events(context.Background(), 1)
	assert.Error(t, err)
}

func TestHTTPSource_Events_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "")
	_, err := source.Events(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

// The second fetch within the TTL is served from Redis without hitting the
// upstream.
func TestHTTPSource_RedisCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"events":[{"start_date":"2025-07-15","end_date":"2025-07-20"}]}`))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	source := NewHTTPSource(srv.URL, "")
	source.UseRedisCache(rdb, time.Minute)

	first, err := source.Events(context.Background(), 3)
	require.NoError(t, err)
	second, err := source.Events(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second fetch must come from cache")
}
