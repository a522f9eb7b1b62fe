package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryReviewCache_TTL(t *testing.T) {
	c := NewMemoryReviewCache(10*time.Millisecond, 0)
	defer c.Close()

	ctx := context.Background()
	key := ReviewKey("Kindle Paperwhite")

	if err := c.Set(ctx, key, "a fine e-reader", 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit immediately after Set")
	}
	if got != "a fine e-reader" {
		t.Fatalf("unexpected value %q", got)
	}

	time.Sleep(30 * time.Millisecond)

	_, hit, err = c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after TTL failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss after TTL expiry")
	}
}

func TestMemoryReviewCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewMemoryReviewCache(5*time.Millisecond, 0)
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "review:x", "kept", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	got, hit, err := c.Get(ctx, "review:x")
	if err != nil || !hit || got != "kept" {
		t.Fatalf("expected persistent entry, got %q hit=%v err=%v", got, hit, err)
	}
}

func TestMemoryReviewCache_OverwriteIsSilent(t *testing.T) {
	c := NewMemoryReviewCache(time.Minute, 0)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "review:a", "first", 0)
	_ = c.Set(ctx, "review:a", "second", 0)

	got, _, _ := c.Get(ctx, "review:a")
	if got != "second" {
		t.Fatalf("expected last write to win, got %q", got)
	}
	if c.Len() != 1 {
		t.Fatalf("expected one entry, got %d", c.Len())
	}
}

func TestMemoryReviewCache_MaxEntriesEvictsOldest(t *testing.T) {
	c := NewMemoryReviewCache(time.Minute, 2)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "review:a", "A", 0)
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "review:b", "B", 0)
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "review:c", "C", 0)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "review:a"); hit {
		t.Fatalf("expected oldest entry to be evicted")
	}
	for _, k := range []string{"review:b", "review:c"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Fatalf("expected %s to survive eviction", k)
		}
	}

	// Overwriting an existing key must not evict anything.
	_ = c.Set(ctx, "review:b", "B2", 0)
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries after overwrite, got %d", c.Len())
	}
}

func TestReviewKey(t *testing.T) {
	tests := []struct {
		product string
		want    string
	}{
		{"Samsung Galaxy S21", "review:Samsung Galaxy S21"},
		{"samsung galaxy s21", "review:samsung galaxy s21"},
		{" Samsung Galaxy S21 ", "review: Samsung Galaxy S21 "},
		{"", "review:"},
	}

	seen := map[string]bool{}
	for _, tt := range tests {
		got := ReviewKey(tt.product)
		if got != tt.want {
			t.Fatalf("ReviewKey(%q) = %q, want %q", tt.product, got, tt.want)
		}
		if seen[got] {
			t.Fatalf("duplicate key %q", got)
		}
		seen[got] = true

		back, ok := ProductFromKey(got)
		if !ok || back != tt.product {
			t.Fatalf("ProductFromKey(%q) = %q, %v", got, back, ok)
		}
	}

	if _, ok := ProductFromKey("exact:1:2"); ok {
		t.Fatalf("expected foreign key to be rejected")
	}
}
