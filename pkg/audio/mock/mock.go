// Package mock provides an in-memory mock implementation of the
// [audio.Source] interface for use in unit tests.
//
// The mock is safe for concurrent use. Tests push chunks explicitly and call
// End to simulate source exhaustion:
//
//	src := mock.NewSource()
//	_ = src.Start(ctx)
//	src.Push(audio.Chunk{Samples: samples, SampleRate: 16000})
//	src.End()
package mock

import (
	"context"
	"sync"

	"github.com/abotescu20-maker/lyralign/pkg/audio"
)

// Compile-time assertion that Source implements audio.Source.
var _ audio.Source = (*Source)(nil)

// Source is a scripted mock implementation of [audio.Source].
type Source struct {
	mu     sync.Mutex
	chunks chan audio.Chunk
	ended  bool

	// StartError is returned by [Source.Start] when non-nil.
	StartError error

	// CallCountStart records how many times Start was called.
	CallCountStart int

	// CallCountClose records how many times Close was called.
	CallCountClose int
}

// NewSource returns a mock source with a generously buffered chunk channel
// so that tests can push without a consumer attached.
func NewSource() *Source {
	return &Source{chunks: make(chan audio.Chunk, 1024)}
}

// Start records the call and returns StartError.
func (s *Source) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CallCountStart++
	return s.StartError
}

// Chunks returns the scripted chunk channel.
func (s *Source) Chunks() <-chan audio.Chunk { return s.chunks }

// Push queues a chunk for delivery. Panics if called after End.
func (s *Source) Push(c audio.Chunk) {
	s.chunks <- c
}

// End closes the chunk channel, simulating file exhaustion. Safe to call
// more than once.
func (s *Source) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ended {
		s.ended = true
		close(s.chunks)
	}
}

// Close records the call and ends the stream.
func (s *Source) Close() error {
	s.mu.Lock()
	s.CallCountClose++
	s.mu.Unlock()
	s.End()
	return nil
}
