package align_test

import (
	"math"
	"testing"

	"github.com/abotescu20-maker/lyralign/internal/align"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "hello world", b: "hello world", want: 1.0},
		{name: "both empty", a: "", b: "", want: 1.0},
		{name: "one empty", a: "hello", b: "", want: 0.0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0.0},
		// 2*M/T with M=3 ("bcd"), T=8.
		{name: "partial overlap", a: "abcd", b: "bcde", want: 6.0 / 8.0},
		{name: "single common block", a: "abcxyz", b: "abc", want: 6.0 / 9.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := align.Ratio(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Ratio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestRatio_Symmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"hello world", "hallo weld"},
		{"goodbye moon", "good night moon"},
		{"la la la", "na na na"},
	}
	for _, p := range pairs {
		ab := align.Ratio(p[0], p[1])
		ba := align.Ratio(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %v but Ratio(%q, %q) = %v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestRatio_Bounds(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"some sung words", "the lyric line"},
		{"", "anything"},
		{"short", "a considerably longer line of text"},
	}
	for _, p := range pairs {
		got := align.Ratio(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Ratio(%q, %q) = %v, out of [0, 1]", p[0], p[1], got)
		}
	}
}

func TestRatio_UnicodeRunes(t *testing.T) {
	t.Parallel()

	// Multi-byte runes must count as single elements, not byte runs.
	if got := align.Ratio("héllo", "héllo"); got != 1.0 {
		t.Fatalf("Ratio(héllo, héllo) = %v, want 1.0", got)
	}
	// M=4 common runes out of T=10.
	if got := align.Ratio("ñañañ", "xañay"); got <= 0 {
		t.Fatalf("Ratio with shared multi-byte runes = %v, want > 0", got)
	}
}
