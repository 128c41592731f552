// Package stt defines the Provider interface for speech-to-text backends.
//
// An STT provider wraps a batch transcription engine (a whisper.cpp server,
// the native whisper.cpp bindings, or a mock in tests) behind a single
// blocking call. The transcription worker accumulates audio until its
// duration threshold is reached and then hands the whole buffer to
// [Provider.Transcribe]; there is no streaming session state to manage.
//
// Implementations must be safe for concurrent use, although the pipeline
// issues at most one Transcribe call at a time.
package stt

import "context"

// Provider is the abstraction over any batch STT backend.
type Provider interface {
	// Transcribe runs recognition over a buffer of mono float32 PCM samples
	// (normalised to [-1.0, 1.0]) at the given sample rate. It blocks until
	// the engine returns. Segment texts are concatenated with single spaces
	// and trimmed; silence or unintelligible audio yields an empty string
	// and a nil error.
	//
	// Implementations must respect ctx cancellation where the underlying
	// engine allows it.
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
}
