package respcache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls   atomic.Int32
	mu      sync.Mutex
	bodies  map[string][]byte
	err     error
	release chan struct{}
	entered chan struct{}
}

func newCountingFetcher() *countingFetcher {
	return &countingFetcher{bodies: map[string][]byte{}}
}

func (f *countingFetcher) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	f.calls.Add(1)
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if body, ok := f.bodies[Key(path, params)]; ok {
		return body, nil
	}
	return []byte(`{"path":"` + path + `"}`), nil
}

func newTestCache(f Fetcher) (*Cache, *MemoryStore) {
	store := NewMemoryStore()
	return New(store, f, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestRepeatGetHitsNetworkOnce(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.bodies["/sources/current"] = []byte(`{"sources":[{"source_type":"Traffic","contribution":0.4}]}`)
	cache, _ := newTestCache(fetcher)

	first, err := cache.Get(context.Background(), "/sources/current", nil)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), "/sources/current", url.Values{})
	require.NoError(t, err)

	require.Equal(t, int32(1), fetcher.calls.Load())
	require.Equal(t, first, second)
}

func TestDistinctParamsDoNotCollide(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.bodies["/x?a=1"] = []byte(`{"v":1}`)
	fetcher.bodies["/x?a=2"] = []byte(`{"v":2}`)
	cache, store := newTestCache(fetcher)

	one, err := cache.Get(context.Background(), "/x", url.Values{"a": {"1"}})
	require.NoError(t, err)
	two, err := cache.Get(context.Background(), "/x", url.Values{"a": {"2"}})
	require.NoError(t, err)

	require.Equal(t, map[string]any{"v": 1.0}, one)
	require.Equal(t, map[string]any{"v": 2.0}, two)
	require.Equal(t, int32(2), fetcher.calls.Load())
	require.Equal(t, 2, store.Len())
}

func TestKeyIsCanonical(t *testing.T) {
	a := url.Values{}
	a.Set("longitude", "77.209")
	a.Set("latitude", "28.6139")
	b := url.Values{}
	b.Set("latitude", "28.6139")
	b.Set("longitude", "77.209")

	require.Equal(t, Key("/forecast/hourly", a), Key("/forecast/hourly", b))
	require.Equal(t, "/forecast/hourly?latitude=28.6139&longitude=77.209", Key("/forecast/hourly", a))
	require.Equal(t, "/alerts/active", Key("/alerts/active", nil))
}

func TestFailuresAreNotCached(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.err = errors.New("status 503")
	cache, store := newTestCache(fetcher)

	_, err := cache.Get(context.Background(), "/policy/recommendations", nil)
	require.EqualError(t, err, "status 503")
	require.Equal(t, 0, store.Len())

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.mu.Unlock()

	value, err := cache.Get(context.Background(), "/policy/recommendations", nil)
	require.NoError(t, err)
	require.NotNil(t, value)
	require.Equal(t, int32(2), fetcher.calls.Load())
}

func TestMalformedBodyIsNotCached(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.bodies["/sources/fires"] = []byte(`<html>`)
	cache, store := newTestCache(fetcher)

	_, err := cache.Get(context.Background(), "/sources/fires", nil)
	require.Error(t, err)
	require.Equal(t, 0, store.Len())
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.release = make(chan struct{})
	fetcher.entered = make(chan struct{}, 1)
	cache, _ := newTestCache(fetcher)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]any, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Get(context.Background(), "/forecast/current", nil)
		}(i)
	}

	<-fetcher.entered
	time.Sleep(20 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	require.Equal(t, int32(1), fetcher.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, results[0], results[i])
	}
}

func TestCallerCancellationDoesNotAbortSharedFetch(t *testing.T) {
	fetcher := newCountingFetcher()
	fetcher.release = make(chan struct{})
	fetcher.entered = make(chan struct{}, 1)
	cache, store := newTestCache(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, "/sources/regional", nil)
		done <- err
	}()

	<-fetcher.entered
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(fetcher.release)
	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)

	_, err := cache.Get(context.Background(), "/sources/regional", nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), fetcher.calls.Load())
}

func TestInvalidateAndClear(t *testing.T) {
	fetcher := newCountingFetcher()
	cache, store := newTestCache(fetcher)
	ctx := context.Background()
	params := url.Values{"segment": {"children"}}

	_, err := cache.Get(ctx, "/health/recommendations", params)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, "/health/recommendations", params))
	_, err = cache.Get(ctx, "/health/recommendations", params)
	require.NoError(t, err)
	require.Equal(t, int32(2), fetcher.calls.Load())

	_, err = cache.Get(ctx, "/health/alerts", nil)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	require.NoError(t, cache.Clear(ctx))
	require.Equal(t, 0, store.Len())

	require.NoError(t, cache.Close(ctx))
}

func TestMemoryStoreIsWriteOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SetIfAbsent(ctx, "k", []byte("first")))
	require.NoError(t, store.SetIfAbsent(ctx, "k", []byte("second")))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "first", string(value))
}
