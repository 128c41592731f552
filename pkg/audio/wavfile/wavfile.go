// Package wavfile provides an [audio.Source] that replays a WAV file.
//
// The file is fully decoded during construction: samples are downmixed to
// mono, normalised to float32, and linearly resampled to the target rate.
// Start then slices the prepared buffer into fixed-duration chunks and
// delivers them back-to-back without real-time pacing — file replay is meant
// for batch alignment runs and tests, not simulated playback.
package wavfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-audio/wav"

	"github.com/abotescu20-maker/lyralign/pkg/audio"
)

// Compile-time assertion that Source implements audio.Source.
var _ audio.Source = (*Source)(nil)

// Source is a file-replay audio source. Create one with [New]; a Source is
// single-use and must not be restarted after Close.
type Source struct {
	samples    []float32
	sampleRate int
	chunkSize  int

	chunks chan audio.Chunk
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// New decodes the WAV file at path and prepares a Source that will deliver
// mono chunks of chunkDuration at sampleRate. All decode, downmix, and
// resample work happens here so that a bad file is reported before any chunk
// is produced.
func New(path string, sampleRate int, chunkDuration time.Duration) (*Source, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavfile: sample rate must be positive, got %d", sampleRate)
	}
	if chunkDuration <= 0 {
		return nil, fmt.Errorf("wavfile: chunk duration must be positive, got %v", chunkDuration)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavfile: open %q: %w", path, err)
	}
	defer f.Close()

	samples, err := decode(f, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("wavfile: decode %q: %w", path, err)
	}

	chunkSize := int(float64(sampleRate) * chunkDuration.Seconds())
	if chunkSize < 1 {
		chunkSize = 1
	}

	return &Source{
		samples:    samples,
		sampleRate: sampleRate,
		chunkSize:  chunkSize,
		chunks:     make(chan audio.Chunk, 16),
		done:       make(chan struct{}),
	}, nil
}

// Start begins delivering the decoded samples as sequential chunks. The
// chunk channel is closed once all samples have been delivered, ctx is
// cancelled, or Close is called. The final chunk may be shorter than the
// configured duration.
func (s *Source) Start(ctx context.Context) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(s.chunks)

		for offset := 0; offset < len(s.samples); offset += s.chunkSize {
			end := offset + s.chunkSize
			if end > len(s.samples) {
				end = len(s.samples)
			}
			chunk := audio.Chunk{
				Samples:    s.samples[offset:end],
				SampleRate: s.sampleRate,
			}
			select {
			case s.chunks <- chunk:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}()
	return nil
}

// Chunks returns the chunk delivery channel.
func (s *Source) Chunks() <-chan audio.Chunk { return s.chunks }

// Close stops delivery. Safe to call more than once.
func (s *Source) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
	})
	return nil
}

// decode reads a whole WAV stream into normalised mono float32 samples at
// targetRate.
func decode(r io.ReadSeeker, targetRate int) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read PCM: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, errors.New("empty PCM buffer")
	}

	channels := 1
	srcRate := int(dec.SampleRate)
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			channels = buf.Format.NumChannels
		}
		if srcRate == 0 {
			srcRate = buf.Format.SampleRate
		}
	}
	if srcRate <= 0 {
		return nil, errors.New("source sample rate unknown")
	}

	bitDepth := int(dec.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}

	mono := audio.DownmixInt(buf.Data, channels, bitDepth)
	return audio.Resample(mono, srcRate, targetRate), nil
}
