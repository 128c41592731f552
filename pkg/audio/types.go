package audio

import "time"

// Chunk represents a single chunk of mono audio flowing through the pipeline.
// Chunks are the atomic unit of audio transport — captured from an input
// device or sliced from a decoded file, accumulated by the transcription
// worker, and handed to the STT provider in batches.
type Chunk struct {
	// Samples holds mono float32 PCM samples normalised to [-1.0, 1.0].
	Samples []float32

	// SampleRate in Hz (e.g., 16000 for STT input).
	SampleRate int
}

// Duration returns the playback duration of the chunk. Returns 0 when the
// sample rate is not set.
func (c Chunk) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}
