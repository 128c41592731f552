package anyllm

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

// ---- construction -----------------------------------------------------------

func TestNew_EmptyProviderName_ReturnsError(t *testing.T) {
	t.Parallel()
	if _, err := New("", "gpt-4o-mini"); err == nil {
		t.Fatal("expected error for empty provider name")
	}
}

func TestNew_EmptyModel_ReturnsError(t *testing.T) {
	t.Parallel()
	if _, err := New("openai", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestNew_UnsupportedProvider_ReturnsError(t *testing.T) {
	t.Parallel()
	_, err := New("babelfish", "whatever")
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
	if !strings.Contains(err.Error(), "babelfish") {
		t.Fatalf("error %q does not name the rejected provider", err)
	}
}

// ---- input validation -------------------------------------------------------

func TestTranslateLines_NoLines_ReturnsError(t *testing.T) {
	t.Parallel()
	tr := &Translator{model: "test"}
	if _, err := tr.TranslateLines(context.Background(), nil, "en"); err == nil {
		t.Fatal("expected error for empty line list")
	}
}

func TestTranslateLines_EmptyTarget_ReturnsError(t *testing.T) {
	t.Parallel()
	tr := &Translator{model: "test"}
	if _, err := tr.TranslateLines(context.Background(), []string{"hello"}, ""); err == nil {
		t.Fatal("expected error for empty target language")
	}
}

// ---- response parsing -------------------------------------------------------

func TestParseNumberedLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{
			name:    "dot markers",
			content: "1. hallo welt\n2. tschüss mond\n",
			want:    []string{"hallo welt", "tschüss mond"},
		},
		{
			name:    "paren markers",
			content: "1) first\n2) second",
			want:    []string{"first", "second"},
		},
		{
			name:    "leading whitespace and blank lines",
			content: "\n  1.  spaced out  \n\n2. tight\n\n",
			want:    []string{"spaced out", "tight"},
		},
		{
			name:    "unnumbered lines accepted in order",
			content: "first line\nsecond line",
			want:    []string{"first line", "second line"},
		},
		{
			name:    "too few lines",
			content: "1. only one",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "too many lines",
			content: "1. one\n2. two\n3. surplus",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseNumberedLines(tc.content, 2)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseNumberedLines = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseNumberedLines: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseNumberedLines = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseNumberedLines_KeepsNumbersInsideText(t *testing.T) {
	t.Parallel()
	got, err := parseNumberedLines("1. 99 red balloons\n2. summer of 69", 2)
	if err != nil {
		t.Fatalf("parseNumberedLines: %v", err)
	}
	want := []string{"99 red balloons", "summer of 69"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseNumberedLines = %v, want %v", got, want)
	}
}
