package docgen

import (
	"testing"
	"time"
)

func testTemplate() *PreparedTemplate {
	return &PreparedTemplate{documentXML: "<w:document/>"}
}

func TestCacheSetGet(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 2})
	tpl := testTemplate()

	cache.Set("a", tpl)
	got, ok := cache.Get("a")
	if !ok || got != tpl {
		t.Errorf("Get(a) = %v, %v", got, ok)
	}
	if _, ok := cache.Get("b"); ok {
		t.Error("Get(b) should miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 2})
	cache.Set("a", testTemplate())
	cache.Set("b", testTemplate())

	// Touch a so b becomes the eviction candidate
	cache.Get("a")
	cache.Set("c", testTemplate())

	if _, ok := cache.Get("a"); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := cache.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
	if cache.Size() != 2 {
		t.Errorf("Size = %d, want 2", cache.Size())
	}
}

func TestCacheDisabled(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 0})
	cache.Set("a", testTemplate())
	if cache.Size() != 0 {
		t.Error("disabled cache stored an entry")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 2, TTL: time.Nanosecond})
	cache.Set("a", testTemplate())
	time.Sleep(time.Millisecond)

	if _, ok := cache.Get("a"); ok {
		t.Error("expired entry still served")
	}
}

func TestCacheRemoveAndClear(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 4})
	cache.Set("a", testTemplate())
	cache.Set("b", testTemplate())

	cache.Remove("a")
	if _, ok := cache.Get("a"); ok {
		t.Error("removed entry still served")
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size after Clear = %d", cache.Size())
	}
}

func TestContentKey(t *testing.T) {
	a := ContentKey([]byte("template one"))
	b := ContentKey([]byte("template two"))
	if a == b {
		t.Error("distinct content must produce distinct keys")
	}
	if a != ContentKey([]byte("template one")) {
		t.Error("content key must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}
