// Package ratelimit provides per-client rate limiting for the HTTP API.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Config defines the rate limiting configuration.
type Config struct {
	RPS             float64       // Requests per second per client
	Burst           int           // Burst size per client
	CleanupInterval time.Duration // How often to clean up idle limiters
}

// DefaultConfig provides sensible defaults for rate limiting.
var DefaultConfig = Config{
	RPS:             50,
	Burst:           100,
	CleanupInterval: time.Hour,
}

// limiterEntry holds a rate limiter and tracks its last usage.
// lastUsed is unix nanos, atomic so the Get fast path can touch it
// under the read lock while Cleanup scans concurrently.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64
}

func (e *limiterEntry) touch() {
	e.lastUsed.Store(time.Now().UnixNano())
}

// Limiter manages per-client rate limiting keyed by client address.
type Limiter struct {
	limiters map[string]*limiterEntry
	mu       sync.RWMutex
	config   Config

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewLimiter creates a new limiter with the given configuration.
// It starts a background goroutine for cleanup.
func NewLimiter(config Config) *Limiter {
	l := &Limiter{
		limiters: make(map[string]*limiterEntry),
		config:   config,
		stopCh:   make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Allow reports whether a request from the given client is within limits.
func (l *Limiter) Allow(client string) bool {
	return l.Get(client).Allow()
}

// Get returns the rate limiter for the given client, creating one if necessary.
func (l *Limiter) Get(client string) *rate.Limiter {
	// Fast path: existing limiter under read lock
	l.mu.RLock()
	entry, exists := l.limiters[client]
	if exists {
		entry.touch()
		l.mu.RUnlock()
		return entry.limiter
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if entry, exists = l.limiters[client]; exists {
		entry.touch()
		return entry.limiter
	}

	entry = &limiterEntry{
		limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst),
	}
	entry.touch()
	l.limiters[client] = entry
	return entry.limiter
}

// Cleanup removes limiters idle for longer than the cleanup interval.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.config.CleanupInterval).UnixNano()
	for client, entry := range l.limiters {
		if entry.lastUsed.Load() < cutoff {
			delete(l.limiters, client)
		}
	}
}

func (l *Limiter) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup()
		case <-l.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine and waits for it to finish.
func (l *Limiter) Stop() {
	close(l.stopCh)
	l.wg.Wait()
}

// Len returns the number of active limiters. Useful for tests and monitoring.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}
