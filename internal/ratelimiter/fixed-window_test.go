package ratelimiter

import (
	"testing"
	"time"
)

func TestAllowUnderLimit(t *testing.T) {
	rl := NewFixedWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retryAfter := rl.Allow("10.0.0.1")
	if ok {
		t.Fatal("fourth request should be blocked")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Fatalf("retryAfter = %v, want within window", retryAfter)
	}
}

func TestClientsAreIndependent(t *testing.T) {
	rl := NewFixedWindowLimiter(1, time.Minute)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("first client should be allowed")
	}
	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Fatal("second client has its own window")
	}
	if ok, _ := rl.Allow("10.0.0.1"); ok {
		t.Fatal("first client should now be blocked")
	}
}

func TestWindowRollover(t *testing.T) {
	rl := NewFixedWindowLimiter(1, 10*time.Millisecond)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := rl.Allow("10.0.0.1"); ok {
		t.Fatal("second request in window should be blocked")
	}

	time.Sleep(15 * time.Millisecond)

	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Fatal("request after rollover should be allowed")
	}
}

func TestSweepDropsExpired(t *testing.T) {
	rl := NewFixedWindowLimiter(5, 10*time.Millisecond)
	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")

	time.Sleep(15 * time.Millisecond)
	rl.Sweep()

	rl.Lock()
	n := len(rl.clients)
	rl.Unlock()
	if n != 0 {
		t.Fatalf("clients map has %d entries after sweep, want 0", n)
	}
}
