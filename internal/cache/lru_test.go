package cache

import (
	"testing"
	"time"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a")
	}
	c.Set("c", 3) // evicts b

	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
	if s := c.Stats(); s.Hits != 2 || s.Misses != 1 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("other", "w")
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 expired entries, got %d", n)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should be gone")
	}
}

func TestLRUCacheOverwriteAndDelete(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute) // clamps to one entry
	c.Set("a", 1)
	c.Set("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Fatalf("expected overwrite, got %d", v)
	}
	c.Delete("a")
	c.Delete("missing")
	if c.Size() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Size())
	}
}
