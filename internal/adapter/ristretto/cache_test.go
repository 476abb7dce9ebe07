package ristretto

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGetDelete(t *testing.T) {
	c, err := New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "focus:1:2024-03-15", []byte("75"), time.Minute); err != nil {
		t.Fatal(err)
	}
	val, found, err := c.Get(ctx, "focus:1:2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(val) != "75" {
		t.Fatalf("expected 75, got %s", val)
	}

	if err := c.Delete(ctx, "focus:1:2024-03-15"); err != nil {
		t.Fatal(err)
	}
	_, found, err = c.Get(ctx, "focus:1:2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected miss after Delete")
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, found, err := c.Get(context.Background(), "never-set")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected miss for key never set")
	}
}

func TestCacheOverwrite(t *testing.T) {
	c, err := New(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v1"), time.Minute)
	_ = c.Set(ctx, "k", []byte("v2"), time.Minute)

	val, found, _ := c.Get(ctx, "k")
	if !found || string(val) != "v2" {
		t.Fatalf("expected v2 after overwrite, got %q (found=%v)", val, found)
	}
}
