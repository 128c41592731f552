// Package resilience provides failover across speech-to-text backends.
//
// The central type is [STTFallback]: an [stt.Provider] that forwards each
// Transcribe call to the first healthy backend in registration order. Every
// backend carries its own breaker — after a run of consecutive failures the
// backend is skipped outright until a cooldown elapses, so a dead local
// whisper-server does not add a connection timeout to every single flush.
//
// All types are safe for concurrent use.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abotescu20-maker/lyralign/pkg/provider/stt"
)

// ErrAllFailed is returned when every backend fails or is cooling down.
var ErrAllFailed = errors.New("resilience: all transcription backends failed")

// errCoolingDown marks a backend skipped without being called.
var errCoolingDown = errors.New("resilience: backend is cooling down")

// BreakerConfig tunes the per-backend breaker of an [STTFallback].
type BreakerConfig struct {
	// MaxFailures is the consecutive-failure count that trips the breaker.
	// Default: 3.
	MaxFailures int

	// Cooldown is how long a tripped backend is skipped before it is probed
	// again. Default: 30s.
	Cooldown time.Duration
}

// breaker tracks one backend's health. A tripped breaker rejects calls until
// the cooldown has elapsed; the next call through is the probe — success
// resets the breaker, failure restarts the cooldown.
type breaker struct {
	mu          sync.Mutex
	maxFailures int
	cooldown    time.Duration
	failures    int
	trippedAt   time.Time
}

// allow reports whether a call may proceed.
func (b *breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.maxFailures {
		return true
	}
	return time.Since(b.trippedAt) >= b.cooldown
}

// record updates the failure accounting after a call.
func (b *breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.maxFailures {
		b.trippedAt = time.Now()
	}
}

// entry pairs a backend with its breaker.
type entry struct {
	name     string
	provider stt.Provider
	breaker  *breaker
}

// Compile-time assertion that STTFallback implements stt.Provider.
var _ stt.Provider = (*STTFallback)(nil)

// STTFallback is an [stt.Provider] with automatic failover across multiple
// backends. Backends are tried in registration order, primary first.
type STTFallback struct {
	cfg     BreakerConfig
	entries []entry
}

// NewSTTFallback creates an STTFallback with primary as the preferred
// backend. Zero-value config fields are replaced with defaults.
func NewSTTFallback(primary stt.Provider, primaryName string, cfg BreakerConfig) *STTFallback {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	f := &STTFallback{cfg: cfg}
	f.AddFallback(primaryName, primary)
	return f
}

// AddFallback registers an additional backend, tried after all previously
// registered ones. Not safe to call concurrently with Transcribe.
func (f *STTFallback) AddFallback(name string, provider stt.Provider) {
	f.entries = append(f.entries, entry{
		name:     name,
		provider: provider,
		breaker:  &breaker{maxFailures: f.cfg.MaxFailures, cooldown: f.cfg.Cooldown},
	})
}

// Transcribe implements stt.Provider. Each backend is tried in order until
// one succeeds; breaker-tripped backends are skipped without being called.
// Cancellation stops the cascade immediately — a timeout on the primary must
// not be retried against a fallback with a dead context.
func (f *STTFallback) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	var lastErr error
	for i := range f.entries {
		e := &f.entries[i]
		if !e.breaker.allow() {
			slog.Debug("skipping transcription backend (cooling down)", "backend", e.name)
			lastErr = errCoolingDown
			continue
		}

		text, err := e.provider.Transcribe(ctx, samples, sampleRate)
		e.breaker.record(err)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
		}
		slog.Warn("transcription backend failed, trying next", "backend", e.name, "error", err)
	}
	return "", fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
