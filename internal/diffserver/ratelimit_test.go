package diffserver

import (
	"testing"
	"time"
)

const testIP = "192.168.1.1"

func TestRateLimiterAllow(t *testing.T) {
	tests := []struct {
		name     string
		rate     int
		burst    int
		window   time.Duration
		requests int
		wantPass int
	}{
		{"first request always allowed", 10, 5, time.Second, 1, 1},
		{"burst allows multiple requests", 10, 5, time.Second, 5, 5},
		{"exceeding burst fails", 10, 3, time.Second, 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := newRateLimiter(tt.rate, tt.burst, tt.window)
			defer rl.Close()

			pass := 0
			for i := 0; i < tt.requests; i++ {
				if rl.allow(testIP) {
					pass++
				}
			}
			if pass != tt.wantPass {
				t.Errorf("allowed %d of %d requests, want %d", pass, tt.requests, tt.wantPass)
			}
		})
	}
}

func TestRateLimiterPerClientIsolation(t *testing.T) {
	rl := newRateLimiter(10, 1, time.Second)
	defer rl.Close()

	if !rl.allow("1.1.1.1") {
		t.Error("first client's first request should be allowed")
	}
	if rl.allow("1.1.1.1") {
		t.Error("first client's second request should be rate-limited")
	}
	if !rl.allow("2.2.2.2") {
		t.Error("second client should have its own bucket")
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	rl := newRateLimiter(1000, 1, 10*time.Millisecond)
	defer rl.Close()

	if !rl.allow(testIP) {
		t.Fatal("first request should be allowed")
	}
	if rl.allow(testIP) {
		t.Fatal("second immediate request should be rate-limited")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.allow(testIP) {
		t.Error("request after the window elapsed should be allowed")
	}
}
