package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %d, %v", v, ok)
	}
	// "b" is now least recently used and gets evicted.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("expected c=3, got %d, %v", v, ok)
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[string](10, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("expected expired entry removed on read, len=%d", n)
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if n := c.Len(); n != 0 {
		t.Fatalf("expected empty cache after clear, len=%d", n)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected miss after clear")
	}
}

func TestLRUCleanExpired(t *testing.T) {
	c := NewLRU[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("fresh", 3)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 expired entries cleaned, got %d", n)
	}
	if v, ok := c.Get("fresh"); !ok || v != 3 {
		t.Fatalf("fresh entry should survive, got %d, %v", v, ok)
	}
}
