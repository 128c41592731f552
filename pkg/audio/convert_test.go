package audio_test

import (
	"math"
	"testing"
	"time"

	"github.com/abotescu20-maker/lyralign/pkg/audio"
)

// ---- DownmixInt -------------------------------------------------------------

func TestDownmixInt_Mono16Bit(t *testing.T) {
	t.Parallel()
	got := audio.DownmixInt([]int{0, 16384, -32768}, 1, 16)
	want := []float32{0, 0.5, -1.0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDownmixInt_StereoAveragesChannels(t *testing.T) {
	t.Parallel()
	// Two frames: (16384, 0) and (-16384, -16384).
	got := audio.DownmixInt([]int{16384, 0, -16384, -16384}, 2, 16)
	want := []float32{0.25, -0.5}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("frame %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDownmixInt_24BitNormalisation(t *testing.T) {
	t.Parallel()
	got := audio.DownmixInt([]int{1 << 22}, 1, 24) // half of full scale
	if math.Abs(float64(got[0]-0.5)) > 1e-6 {
		t.Fatalf("sample = %f, want 0.5", got[0])
	}
}

func TestDownmixInt_Empty(t *testing.T) {
	t.Parallel()
	if got := audio.DownmixInt(nil, 2, 16); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

// ---- Resample ---------------------------------------------------------------

func TestResample_SameRate_ReturnsInput(t *testing.T) {
	t.Parallel()
	in := []float32{0.1, 0.2, 0.3}
	got := audio.Resample(in, 16000, 16000)
	if &got[0] != &in[0] {
		t.Fatal("expected the input slice back for matching rates")
	}
}

func TestResample_HalvesLength(t *testing.T) {
	t.Parallel()
	in := make([]float32, 44100)
	got := audio.Resample(in, 44100, 22050)
	if len(got) != 22050 {
		t.Fatalf("len = %d, want 22050", len(got))
	}
}

func TestResample_DoublesLength(t *testing.T) {
	t.Parallel()
	in := make([]float32, 8000)
	got := audio.Resample(in, 8000, 16000)
	if len(got) != 16000 {
		t.Fatalf("len = %d, want 16000", len(got))
	}
}

func TestResample_InterpolatesLinearly(t *testing.T) {
	t.Parallel()
	// Upsampling a ramp by 2 puts midpoints between the originals.
	in := []float32{0, 1}
	got := audio.Resample(in, 1, 2)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0] != 0 || math.Abs(float64(got[1]-0.5)) > 1e-6 {
		t.Fatalf("got %v, want ramp through 0, 0.5", got)
	}
}

func TestResample_PreservesRange(t *testing.T) {
	t.Parallel()
	in := make([]float32, 1000)
	for i := range in {
		in[i] = float32(math.Sin(float64(i) / 10))
	}
	got := audio.Resample(in, 48000, 16000)
	for i, s := range got {
		if s < -1 || s > 1 {
			t.Fatalf("sample %d = %f out of [-1, 1]", i, s)
		}
	}
}

// ---- Chunk ------------------------------------------------------------------

func TestChunkDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		chunk audio.Chunk
		want  time.Duration
	}{
		{
			name:  "one second at 16k",
			chunk: audio.Chunk{Samples: make([]float32, 16000), SampleRate: 16000},
			want:  time.Second,
		},
		{
			name:  "quarter second",
			chunk: audio.Chunk{Samples: make([]float32, 4000), SampleRate: 16000},
			want:  250 * time.Millisecond,
		},
		{
			name:  "zero rate",
			chunk: audio.Chunk{Samples: make([]float32, 100)},
			want:  0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.chunk.Duration(); got != tc.want {
				t.Fatalf("Duration = %v, want %v", got, tc.want)
			}
		})
	}
}

// ---- Drain ------------------------------------------------------------------

func TestDrain_ConsumesUntilClose(t *testing.T) {
	t.Parallel()
	ch := make(chan audio.Chunk, 8)
	for range 8 {
		ch <- audio.Chunk{}
	}
	close(ch)
	audio.Drain(ch) // must return once the channel is exhausted
}
