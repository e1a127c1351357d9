package redis

import (
	"context"
	"testing"
)

type view struct {
	Name string `json:"name"`
}

func TestNilViewCacheIsAlwaysMissing(t *testing.T) {
	var c *ViewCache[view]
	ctx := context.Background()

	c.Set(ctx, "k", &view{Name: "x"})
	if v, ok := c.Get(ctx, "k"); ok || v != nil {
		t.Fatalf("expected miss, got %+v", v)
	}
	c.Delete(ctx, "k")
	n, err := c.InvalidatePrefix(ctx, "k")
	if err != nil || n != 0 {
		t.Fatalf("InvalidatePrefix() = %d, %v", n, err)
	}
}
