package diffserver

import (
	"net/http"
	"sync"
	"time"
)

const (
	cleanupInterval  = 1 * time.Minute
	clientExpiration = 5 * time.Minute
)

// rateLimiter is a token bucket rate limiter keyed by client IP,
// guarding the diff/merge endpoints against a client hammering the
// server with large-blob requests.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*bucket
	rate    int
	burst   int
	window  time.Duration
	stop    chan struct{}
}

type bucket struct {
	tokens    int
	lastCheck time.Time
}

func newRateLimiter(rate, burst int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		window:  window,
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// Close stops the cleanup goroutine. Call during server shutdown.
func (rl *rateLimiter) Close() {
	close(rl.stop)
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.clients[ip]
	if !exists {
		rl.clients[ip] = &bucket{tokens: rl.burst - 1, lastCheck: time.Now()}
		return true
	}

	now := time.Now()
	elapsed := now.Sub(b.lastCheck)
	tokensToAdd := int(float64(elapsed) / float64(rl.window) * float64(rl.rate))
	b.tokens += tokensToAdd
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastCheck = now

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for ip, b := range rl.clients {
				if now.Sub(b.lastCheck) > clientExpiration {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		if !rl.allow(ip) {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
