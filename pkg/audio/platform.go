// Package audio defines the types and interfaces for audio acquisition
// within lyralign.
//
// The central abstraction is [Source]: a producer of fixed-duration mono
// [Chunk] values at a configured sample rate. Two interchangeable
// implementations are provided by adapter packages:
//
//   - [audio/portaudio] — continuous capture from a live input device.
//   - [audio/wavfile] — replay of a decoded WAV asset, resampled and
//     downmixed to the target format, without real-time pacing.
//
// Both deliver chunks through the same channel interface so the rest of the
// pipeline is mode-agnostic.
//
// This package lives under pkg/ because external code (alternative capture
// adapters) is expected to implement [Source].
package audio

import "context"

// Source produces an ordered stream of audio chunks.
//
// A Source is constructed by an adapter package; construction performs all
// fallible setup (opening the device, decoding the file) so that errors
// surface before any chunk is produced. Start begins delivery and Close
// stops it.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Start begins chunk delivery. The supplied ctx governs the lifetime of
	// the delivery goroutine: when ctx is cancelled, delivery stops and the
	// Chunks channel is closed. Start must be called at most once.
	Start(ctx context.Context) error

	// Chunks returns the read-only channel that delivers audio chunks in
	// capture order. The channel is closed when the source is exhausted
	// (file replay), the context passed to Start is cancelled, or Close is
	// called.
	Chunks() <-chan Chunk

	// Close stops delivery and releases any held resources (device handles,
	// file decoders). It is safe to call Close more than once; subsequent
	// calls are no-ops and return nil.
	Close() error
}
