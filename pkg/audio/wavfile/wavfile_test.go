package wavfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/abotescu20-maker/lyralign/pkg/audio"
	"github.com/abotescu20-maker/lyralign/pkg/audio/wavfile"
)

// writeTestWAV writes a mono 16-bit WAV file with n samples of a constant
// mid-scale value and returns its path.
func writeTestWAV(t *testing.T, sampleRate, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	data := make([]int, n)
	for i := range data {
		data[i] = 8192
	}
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return path
}

// collectChunks drains the source until the channel closes.
func collectChunks(t *testing.T, src *wavfile.Source) []audio.Chunk {
	t.Helper()
	var out []audio.Chunk
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c, ok := <-src.Chunks():
			if !ok {
				return out
			}
			out = append(out, c)
		case <-timeout:
			t.Fatalf("timed out collecting chunks, got %d so far", len(out))
		}
	}
}

func TestNew_MissingFile_ReturnsError(t *testing.T) {
	t.Parallel()
	_, err := wavfile.New(filepath.Join(t.TempDir(), "missing.wav"), 16000, time.Second)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNew_NotAWAVFile_ReturnsError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("definitely not RIFF"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wavfile.New(path, 16000, time.Second); err == nil {
		t.Fatal("expected error for invalid WAV data")
	}
}

func TestNew_InvalidParams_ReturnsError(t *testing.T) {
	t.Parallel()
	path := writeTestWAV(t, 16000, 1600)
	if _, err := wavfile.New(path, 0, time.Second); err == nil {
		t.Error("expected error for zero sample rate")
	}
	if _, err := wavfile.New(path, 16000, 0); err == nil {
		t.Error("expected error for zero chunk duration")
	}
}

func TestSource_DeliversAllSamplesInChunks(t *testing.T) {
	t.Parallel()
	const rate = 16000
	path := writeTestWAV(t, rate, 2*rate+rate/2) // 2.5 s of audio

	src, err := wavfile.New(path, rate, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer src.Close()
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	chunks := collectChunks(t, src)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3 (two full, one partial)", len(chunks))
	}
	if len(chunks[0].Samples) != rate || len(chunks[1].Samples) != rate {
		t.Errorf("full chunk sizes = %d, %d, want %d", len(chunks[0].Samples), len(chunks[1].Samples), rate)
	}
	if len(chunks[2].Samples) != rate/2 {
		t.Errorf("final chunk size = %d, want %d", len(chunks[2].Samples), rate/2)
	}
	for i, c := range chunks {
		if c.SampleRate != rate {
			t.Errorf("chunk %d sample rate = %d, want %d", i, c.SampleRate, rate)
		}
	}
}

func TestSource_NormalisesSampleValues(t *testing.T) {
	t.Parallel()
	const rate = 16000
	path := writeTestWAV(t, rate, rate)

	src, err := wavfile.New(path, rate, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer src.Close()
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	chunks := collectChunks(t, src)
	if len(chunks) == 0 {
		t.Fatal("no chunks delivered")
	}
	// 8192 out of 32768 is 0.25 after normalisation.
	got := chunks[0].Samples[0]
	if got < 0.24 || got > 0.26 {
		t.Fatalf("sample = %f, want ~0.25", got)
	}
}

func TestSource_ResamplesToTargetRate(t *testing.T) {
	t.Parallel()
	// A 44.1 kHz file replayed at 16 kHz: one second of audio stays one
	// second worth of samples at the target rate.
	path := writeTestWAV(t, 44100, 44100)

	src, err := wavfile.New(path, 16000, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer src.Close()
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	total := 0
	for _, c := range collectChunks(t, src) {
		total += len(c.Samples)
	}
	// Ratio arithmetic may land one sample short of the exact second.
	if total < 15999 || total > 16001 {
		t.Fatalf("total samples = %d, want ~16000", total)
	}
}

func TestSource_CancelledContext_StopsDelivery(t *testing.T) {
	t.Parallel()
	const rate = 16000
	path := writeTestWAV(t, rate, 100*rate)

	// A tiny chunk size forces many sends so cancellation lands mid-stream.
	src, err := wavfile.New(path, rate, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	// The channel must close without the consumer draining everything.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-src.Chunks():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("chunk channel did not close after cancellation")
		}
	}
}

func TestSource_CloseIsIdempotent(t *testing.T) {
	t.Parallel()
	path := writeTestWAV(t, 16000, 16000)
	src, err := wavfile.New(path, 16000, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := src.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
