// Package session wires an audio source, the transcription worker, and the
// lyrics aligner into one running pipeline.
//
// A [Session] owns the full lifecycle: Start launches the audio source and
// the accumulate-and-flush worker loop, Matches exposes accepted alignment
// results to the consumer, and Stop tears everything down and blocks until
// all resources are released. The state machine is
// idle → running → stopping → stopped; Stop is idempotent and a no-op
// before Start. When a file source exhausts its samples the session
// transitions to stopped on its own, while already-queued matches remain
// drainable from the closed Matches channel.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abotescu20-maker/lyralign/internal/align"
	"github.com/abotescu20-maker/lyralign/internal/observe"
	"github.com/abotescu20-maker/lyralign/internal/transcript"
	"github.com/abotescu20-maker/lyralign/pkg/audio"
	"github.com/abotescu20-maker/lyralign/pkg/provider/stt"
)

// State is the lifecycle phase of a [Session].
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrAlreadyStarted is returned by Start when the session has left the idle
// state. Sessions are single-use.
var ErrAlreadyStarted = errors.New("session: already started")

// matchBuffer bounds the output queue. Matches arrive at lyric pace — at
// most one per flush — so 64 entries give the consumer ample slack.
const matchBuffer = 64

// defaultMaxSTTFailures is the consecutive-failure count after which the
// session escalates and shuts down instead of silently retrying forever.
const defaultMaxSTTFailures = 5

// Config fixes the session's audio format and accumulation threshold.
type Config struct {
	// SampleRate is the mono sample rate in Hz shared by the source and the
	// STT engine. Must be positive.
	SampleRate int

	// ChunkDuration is the accumulation threshold: audio is buffered until
	// SampleRate × ChunkDuration samples have arrived, then flushed to the
	// STT engine in one blocking call. Must be positive.
	ChunkDuration time.Duration

	// MaxSTTFailures is the consecutive transcription-failure count that
	// ends the session. Zero selects the default (5).
	MaxSTTFailures int
}

// Option is a functional option for configuring a [Session].
type Option func(*Session)

// WithCorrector attaches a [transcript.Corrector] applied to each transcript
// before alignment. When nil (the default), transcripts pass through
// unchanged.
func WithCorrector(c *transcript.Corrector) Option {
	return func(s *Session) { s.corrector = c }
}

// WithMetrics overrides the package-default metrics instance. Used by tests
// to avoid global meter state.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// Session is a single alignment run over one song. Create with [New], drive
// with [Session.Start], consume [Session.Matches], end with [Session.Stop].
// A Session must not be restarted.
type Session struct {
	source    audio.Source
	sttp      stt.Provider
	aligner   *align.Aligner
	corrector *transcript.Corrector
	metrics   *observe.Metrics
	cfg       Config

	matches chan align.Match
	state   atomic.Int32
	cancel  context.CancelFunc
	done    chan struct{}
	stopped sync.Once
}

// New validates cfg and assembles a Session. The aligner must be pre-loaded
// with the session's reference lines; the source must not have been started.
func New(source audio.Source, provider stt.Provider, aligner *align.Aligner, cfg Config, opts ...Option) (*Session, error) {
	if source == nil || provider == nil || aligner == nil {
		return nil, errors.New("session: source, provider, and aligner are required")
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("session: sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.ChunkDuration <= 0 {
		return nil, fmt.Errorf("session: chunk duration must be positive, got %v", cfg.ChunkDuration)
	}
	if cfg.MaxSTTFailures <= 0 {
		cfg.MaxSTTFailures = defaultMaxSTTFailures
	}

	s := &Session{
		source:  source,
		sttp:    provider,
		aligner: aligner,
		cfg:     cfg,
		matches: make(chan align.Match, matchBuffer),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s, nil
}

// Start launches the audio source and the transcription worker. The session
// stops when ctx is cancelled, Stop is called, or a file source runs out of
// samples. Returns ErrAlreadyStarted on reuse; a source start failure leaves
// the session stopped.
func (s *Session) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if err := s.source.Start(runCtx); err != nil {
		cancel()
		s.state.Store(int32(StateStopped))
		close(s.matches)
		close(s.done)
		return fmt.Errorf("session: start audio source: %w", err)
	}

	go s.run(runCtx)
	return nil
}

// Matches returns the channel of accepted alignment results, in emission
// order. The channel is closed once the session has stopped and no further
// matches will ever arrive; buffered matches remain drainable after close.
func (s *Session) Matches() <-chan align.Match { return s.matches }

// Running reports whether the session is still producing output.
func (s *Session) Running() bool {
	return State(s.state.Load()) == StateRunning
}

// CurrentState returns the session's current lifecycle phase.
func (s *Session) CurrentState() State {
	return State(s.state.Load())
}

// Stop signals all stages to halt and blocks until they have released their
// resources. Safe to call from any goroutine; idempotent; a no-op before
// Start or after the session has stopped on its own.
func (s *Session) Stop() {
	if State(s.state.Load()) == StateIdle {
		return
	}
	s.stopped.Do(func() {
		s.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
		if s.cancel != nil {
			s.cancel()
		}
	})
	<-s.done
}

// run executes the worker loop and finalises the session when it returns.
func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	err := s.consume(ctx)

	// Resource release before the state flip: no output after stopped.
	if closeErr := s.source.Close(); closeErr != nil {
		slog.Warn("session: audio source close failed", "err", closeErr)
	}
	close(s.matches)
	s.state.Store(int32(StateStopped))

	switch {
	case err == nil || errors.Is(err, context.Canceled):
		slog.Info("session ended")
	default:
		slog.Error("session ended with error", "err", err)
	}
}
