package losapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestInMemoryCacheSetGet(t *testing.T) {
	cache := NewInMemoryCache()

	if _, found := cache.Get("nonexistent"); found {
		t.Error("Expected false for non-existent key")
	}

	if err := cache.Set("test-key", `{"a":1}`, time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	value, found := cache.Get("test-key")
	if !found {
		t.Fatal("Expected true for existing key")
	}
	if value != `{"a":1}` {
		t.Errorf("Expected stored value, got %q", value)
	}
	if !cache.Has("test-key") {
		t.Error("Expected Has to report true")
	}
}

func TestInMemoryCacheExpiration(t *testing.T) {
	cache := NewInMemoryCache()

	if err := cache.Set("expired-key", "v", -time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, found := cache.Get("expired-key"); found {
		t.Error("Expected expired entry to not be found")
	}
	if cache.Has("expired-key") {
		t.Error("Expected Has to report false for expired entry")
	}
}

func TestInMemoryCacheInvalidKey(t *testing.T) {
	cache := NewInMemoryCache()
	err := cache.Set("", "v", time.Hour)
	if !errors.Is(err, ErrInvalidCacheKey) {
		t.Errorf("Expected ErrInvalidCacheKey, got %v", err)
	}
}

func TestInMemoryCacheDeleteClearLen(t *testing.T) {
	cache := NewInMemoryCache()
	for i := 0; i < 10; i++ {
		if err := cache.Set(fmt.Sprintf("key-%d", i), "v", time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if cache.Len() != 10 {
		t.Errorf("Expected 10 entries, got %d", cache.Len())
	}
	cache.Delete("key-0")
	if cache.Has("key-0") {
		t.Error("Expected deleted key to be gone")
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", cache.Len())
	}
}

func newCachedTestClient(t *testing.T, calls *atomic.Int64, status int, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return New(server.URL, WithInMemoryCache())
}

func TestGetCachedRequiresCache(t *testing.T) {
	client := New("https://api.test/")
	_, err := client.GetCached(context.Background(), "/x", "k", nil)
	if err == nil {
		t.Fatal("Expected configuration error")
	}
	ce := AsClientError(err)
	if ce == nil || ce.Type != ErrorTypeConfiguration {
		t.Errorf("Expected Configuration error, got %v", err)
	}
	if !errors.Is(err, ErrNoCache) {
		t.Error("Expected error chain to include ErrNoCache")
	}
}

func TestGetCachedRejectsEmptyKey(t *testing.T) {
	client := New("https://api.test/", WithInMemoryCache())
	_, err := client.GetCached(context.Background(), "/x", "", nil)
	if !errors.Is(err, ErrInvalidCacheKey) {
		t.Errorf("Expected ErrInvalidCacheKey, got %v", err)
	}
}

func TestGetCachedRoundTrip(t *testing.T) {
	var calls atomic.Int64
	client := newCachedTestClient(t, &calls, http.StatusOK, `{"id":1}`)

	first, err := client.GetCached(context.Background(), "/items/1", "k", nil, time.Minute)
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("Expected one live call, got %d", calls.Load())
	}

	second, err := client.GetCached(context.Background(), "/items/1", "k", nil, time.Minute)
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Cache hit must not perform a network call, got %d calls", calls.Load())
	}

	firstID, _ := first.Get("id")
	secondID, _ := second.Get("id")
	if firstID != secondID {
		t.Error("Expected equivalent resources from cache and live fetch")
	}
	if second.IsError() {
		t.Error("Synthesized resource must not classify as error")
	}
}

func TestGetCachedTTLExpiry(t *testing.T) {
	var calls atomic.Int64
	client := newCachedTestClient(t, &calls, http.StatusOK, `{"id":1}`)

	if _, err := client.GetCached(context.Background(), "/items/1", "k", nil, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := client.GetCached(context.Background(), "/items/1", "k", nil, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected live refetch after TTL, got %d calls", calls.Load())
	}
}

func TestGetCachedDoesNotStoreEmptyBody(t *testing.T) {
	var calls atomic.Int64
	client := newCachedTestClient(t, &calls, http.StatusOK, "")

	if _, err := client.GetCached(context.Background(), "/items/1", "k", nil, time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, err := client.GetCached(context.Background(), "/items/1", "k", nil, time.Minute); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("Empty bodies must not be cached, got %d calls", calls.Load())
	}
}

func TestGetCachedDoesNotStoreErrorResources(t *testing.T) {
	var calls atomic.Int64
	client := newCachedTestClient(t, &calls, http.StatusBadRequest, `{"error":"nope"}`)

	opts := &CallOptions{HTTPErrors: Bool(false)}
	res, err := client.GetCached(context.Background(), "/items/1", "k", opts, time.Minute)
	if err != nil {
		t.Fatalf("Expected error resource, not failure: %v", err)
	}
	if !res.IsError() {
		t.Fatal("Expected error-classified resource")
	}
	if _, err := client.GetCached(context.Background(), "/items/1", "k", opts, time.Minute); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("Error resources must not be cached, got %d calls", calls.Load())
	}
}

func TestGetCachedFailurePropagates(t *testing.T) {
	var calls atomic.Int64
	client := newCachedTestClient(t, &calls, http.StatusInternalServerError, `{}`)

	_, err := client.GetCached(context.Background(), "/items/1", "k", nil, time.Minute)
	if !IsBadResponse(err) {
		t.Errorf("Expected BadResponse failure, got %v", err)
	}
	if client.cache.Has("k") {
		t.Error("Failed call must not populate the cache")
	}
}

func TestGetCachedDefaultTTLPrecedence(t *testing.T) {
	recorded := &recordingCache{store: map[string]string{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1}`)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, WithCustomCache(recorded), WithDefaultTTL(42*time.Second))
	if _, err := client.GetCached(context.Background(), "/x", "k", nil); err != nil {
		t.Fatal(err)
	}
	if recorded.lastTTL != 42*time.Second {
		t.Errorf("Expected client default TTL, got %v", recorded.lastTTL)
	}

	if _, err := client.GetCached(context.Background(), "/x", "k2", nil, 7*time.Second); err != nil {
		t.Fatal(err)
	}
	if recorded.lastTTL != 7*time.Second {
		t.Errorf("Expected call TTL to win, got %v", recorded.lastTTL)
	}
}

type recordingCache struct {
	store   map[string]string
	lastTTL time.Duration
}

func (c *recordingCache) Has(key string) bool {
	_, ok := c.store[key]
	return ok
}

func (c *recordingCache) Get(key string) (string, bool) {
	v, ok := c.store[key]
	return v, ok
}

func (c *recordingCache) Set(key, value string, ttl time.Duration) error {
	c.store[key] = value
	c.lastTTL = ttl
	return nil
}
