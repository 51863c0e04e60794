package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    5,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	for i := 0; i < 5; i++ {
		if !rl.Allow("test-ip") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    3,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	for i := 0; i < 3; i++ {
		rl.Allow("test-ip")
	}

	if rl.Allow("test-ip") {
		t.Fatal("4th request should be blocked")
	}
}

func TestRateLimiter_DifferentKeysIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    2,
		Window: time.Minute,
		KeyFn:  KeyByIP,
	})

	rl.Allow("ip-a")
	rl.Allow("ip-a")

	// ip-a is exhausted
	if rl.Allow("ip-a") {
		t.Fatal("ip-a should be blocked")
	}

	// ip-b should still be allowed
	if !rl.Allow("ip-b") {
		t.Fatal("ip-b should be allowed (independent key)")
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Max:    2,
		Window: 50 * time.Millisecond,
		KeyFn:  KeyByIP,
	})

	rl.Allow("test")
	rl.Allow("test")

	if rl.Allow("test") {
		t.Fatal("should be blocked within window")
	}

	// Wait for window to expire
	time.Sleep(60 * time.Millisecond)

	if !rl.Allow("test") {
		t.Fatal("should be allowed after window reset")
	}
}

func TestRateLimiter_APIConfig(t *testing.T) {
	rl := NewAPIRateLimiter(20)
	for i := 0; i < 20; i++ {
		if !rl.Allow("owner:abc123") {
			t.Fatalf("api request %d should be allowed (max 20)", i+1)
		}
	}
	if rl.Allow("owner:abc123") {
		t.Fatal("21st api request should be blocked")
	}
}

func TestRateLimiter_APIConfigFallbackDefault(t *testing.T) {
	rl := NewAPIRateLimiter(0)
	for i := 0; i < 20; i++ {
		if !rl.Allow("owner:abc123") {
			t.Fatalf("api request %d should be allowed (default max 20)", i+1)
		}
	}
	if rl.Allow("owner:abc123") {
		t.Fatal("21st api request should be blocked under default limit")
	}
}

func TestRateLimiter_SyncConfig(t *testing.T) {
	rl := NewSyncRateLimiter()
	for i := 0; i < 2; i++ {
		if !rl.Allow("owner:abc123") {
			t.Fatalf("sync request %d should be allowed (max 2)", i+1)
		}
	}
	if rl.Allow("owner:abc123") {
		t.Fatal("3rd sync request should be blocked")
	}
}

func TestRateLimiter_PurgeConfig(t *testing.T) {
	rl := NewPurgeRateLimiter()
	if !rl.Allow("owner:abc123") {
		t.Fatal("1st purge request should be allowed")
	}
	if rl.Allow("owner:abc123") {
		t.Fatal("2nd purge request should be blocked (max 1/hour)")
	}
}
