// Package portaudio provides an [audio.Source] that captures from the
// default system input device via PortAudio.
//
// The PortAudio stream invokes a real-time callback per captured buffer.
// That callback must never block, so each buffer is copied into a bounded
// channel; if the downstream consumer falls behind the buffer is dropped and
// counted rather than stalling the audio driver.
package portaudio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	pa "github.com/gordonklaus/portaudio"

	"github.com/abotescu20-maker/lyralign/pkg/audio"
)

// chunkBuffer bounds the capture channel. At the default 100 ms buffer size
// this holds roughly 25 seconds of audio, enough to ride out one slow STT
// flush without dropping.
const chunkBuffer = 256

// Compile-time assertion that Source implements audio.Source.
var _ audio.Source = (*Source)(nil)

// Option is a functional option for configuring a [Source].
type Option func(*Source)

// WithFramesPerBuffer sets the number of samples PortAudio delivers per
// callback invocation. Defaults to sampleRate/10 (100 ms).
func WithFramesPerBuffer(frames int) Option {
	return func(s *Source) {
		if frames > 0 {
			s.framesPerBuffer = frames
		}
	}
}

// Source is a live-capture audio source. Create one with [New]; a Source is
// single-use and must not be restarted after Close.
type Source struct {
	sampleRate      int
	framesPerBuffer int

	stream *pa.Stream
	chunks chan audio.Chunk

	dropped atomic.Int64
	closed  atomic.Bool
	once    sync.Once
}

// New initialises PortAudio and opens the default input device for mono
// capture at sampleRate. Failing to open the device is reported here, before
// any chunk is produced. The caller must call Close to release the device
// and shut PortAudio down.
func New(sampleRate int, opts ...Option) (*Source, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("portaudio: sample rate must be positive, got %d", sampleRate)
	}

	s := &Source{
		sampleRate:      sampleRate,
		framesPerBuffer: sampleRate / 10,
		chunks:          make(chan audio.Chunk, chunkBuffer),
	}
	for _, o := range opts {
		o(s)
	}

	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: initialise: %w", err)
	}

	stream, err := pa.OpenDefaultStream(1, 0, float64(sampleRate), s.framesPerBuffer, s.capture)
	if err != nil {
		_ = pa.Terminate()
		return nil, fmt.Errorf("portaudio: open default input stream: %w", err)
	}
	s.stream = stream

	return s, nil
}

// Start begins capture. Delivery continues until Close is called; ctx
// cancellation also stops the stream.
func (s *Source) Start(ctx context.Context) error {
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start stream: %w", err)
	}
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	return nil
}

// Chunks returns the chunk delivery channel. It is closed by Close.
func (s *Source) Chunks() <-chan audio.Chunk { return s.chunks }

// Close stops and releases the capture stream and terminates PortAudio.
// Safe to call more than once.
func (s *Source) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		if stopErr := s.stream.Stop(); stopErr != nil {
			err = fmt.Errorf("portaudio: stop stream: %w", stopErr)
		}
		if closeErr := s.stream.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("portaudio: close stream: %w", closeErr)
		}
		_ = pa.Terminate()
		close(s.chunks)

		if n := s.dropped.Load(); n > 0 {
			slog.Warn("portaudio: capture buffers dropped during session", "count", n)
		}
	})
	return err
}

// capture is the PortAudio real-time callback. It must not block: the buffer
// is copied (PortAudio reuses it) and queued non-blocking.
func (s *Source) capture(in []float32) {
	if s.closed.Load() {
		return
	}
	samples := make([]float32, len(in))
	copy(samples, in)

	select {
	case s.chunks <- audio.Chunk{Samples: samples, SampleRate: s.sampleRate}:
	default:
		s.dropped.Add(1)
	}
}
