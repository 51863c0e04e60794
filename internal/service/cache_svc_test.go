package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCacheService_NilClientNoops(t *testing.T) {
	cache := &CacheService{}
	ctx := context.Background()

	hitsBefore := testutil.ToFloat64(cacheHits)
	missesBefore := testutil.ToFloat64(cacheMisses)

	data, err := cache.GetWhitelist(ctx, "user-1")
	if err != nil || data != nil {
		t.Errorf("GetWhitelist on disabled cache = (%v, %v), want (nil, nil)", data, err)
	}
	data, err = cache.GetPreferences(ctx, "user-1")
	if err != nil || data != nil {
		t.Errorf("GetPreferences on disabled cache = (%v, %v), want (nil, nil)", data, err)
	}
	if err := cache.SetWhitelist(ctx, "user-1", []string{"x"}); err != nil {
		t.Errorf("SetWhitelist on disabled cache: %v", err)
	}
	if err := cache.InvalidateOwner(ctx, "user-1"); err != nil {
		t.Errorf("InvalidateOwner on disabled cache: %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("Close on disabled cache: %v", err)
	}

	// A disabled cache is neither a hit nor a miss.
	if got := testutil.ToFloat64(cacheHits); got != hitsBefore {
		t.Errorf("cacheHits moved on disabled cache: %v -> %v", hitsBefore, got)
	}
	if got := testutil.ToFloat64(cacheMisses); got != missesBefore {
		t.Errorf("cacheMisses moved on disabled cache: %v -> %v", missesBefore, got)
	}
}
