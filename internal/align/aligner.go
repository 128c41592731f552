// Package align matches noisy speech transcripts to lyric lines.
//
// The central type is [Aligner]: a stateful fuzzy matcher over an ordered,
// immutable list of original/translation line pairs. A single cursor tracks
// the most recently accepted line and only ever moves forward, so each line
// is surfaced at most once and matched indices are strictly increasing for
// the lifetime of a session.
//
// The aligner is greedy and best-effort: it tolerates skipped or garbled
// lines rather than computing an optimal global alignment, and it never
// backtracks. It is designed for single-caller use — the transcription
// worker's emission path — and therefore needs no internal locking.
package align

import (
	"errors"
	"log/slog"
	"strings"
)

// DefaultMinRatio is the default similarity threshold for accepting a
// match. Calibrated empirically to tolerate ASR noise while rejecting
// unrelated speech.
const DefaultMinRatio = 0.45

// Line is an immutable original/translation lyric pair at a fixed position
// in the session's reference sequence.
type Line struct {
	Original    string
	Translation string
}

// Match reports a transcript that advanced the cursor.
type Match struct {
	// Index is the matched line's position in the reference sequence.
	// Strictly greater than the Index of every previously returned Match.
	Index int

	// Original and Translation are the matched line's texts.
	Original    string
	Translation string

	// Ratio is the similarity score that won the match.
	Ratio float64
}

// Option is a functional option for configuring an [Aligner].
type Option func(*Aligner)

// WithMinRatio overrides [DefaultMinRatio].
func WithMinRatio(minRatio float64) Option {
	return func(a *Aligner) {
		if minRatio > 0 {
			a.minRatio = minRatio
		}
	}
}

// Aligner is a stateful fuzzy matcher between transcripts and lyric lines.
// Not safe for concurrent use: the cursor relies on single-writer
// discipline.
type Aligner struct {
	lines      []Line
	normalized []string // lowercased originals, parallel to lines
	cursor     int      // index of last accepted line; -1 before any match
	minRatio   float64
}

// New builds an Aligner from parallel lyric and translation lists. The two
// are zipped positionally; a length mismatch truncates to the shorter list
// and logs a warning so the mismatch stays visible. Returns an error when
// either list is empty.
func New(lyrics, translations []string, opts ...Option) (*Aligner, error) {
	if len(lyrics) == 0 {
		return nil, errors.New("align: lyrics list must not be empty")
	}
	if len(translations) == 0 {
		return nil, errors.New("align: translations list must not be empty")
	}
	n := len(lyrics)
	if len(translations) != len(lyrics) {
		if len(translations) < n {
			n = len(translations)
		}
		slog.Warn("align: lyrics/translations length mismatch, truncating to shorter",
			"lyrics", len(lyrics),
			"translations", len(translations),
			"kept", n,
		)
	}

	a := &Aligner{
		lines:      make([]Line, n),
		normalized: make([]string, n),
		cursor:     -1,
		minRatio:   DefaultMinRatio,
	}
	for i := range n {
		a.lines[i] = Line{Original: lyrics[i], Translation: translations[i]}
		a.normalized[i] = strings.ToLower(lyrics[i])
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Align finds the best fuzzy match for transcript among the not-yet-passed
// lines. It returns ok=false — without touching the cursor — when the
// transcript is empty after normalisation, the best ratio is below the
// threshold, or the best index does not advance the cursor. On success the
// cursor moves to the matched index.
func (a *Aligner) Align(transcript string) (Match, bool) {
	normalized := strings.ToLower(strings.TrimSpace(transcript))
	if normalized == "" {
		return Match{}, false
	}

	start := a.cursor
	if start < 0 {
		start = 0
	}

	bestIdx := -1
	bestRatio := 0.0
	for i := start; i < len(a.lines); i++ {
		// Strict > keeps the first (lowest) index on ties.
		if r := Ratio(a.normalized[i], normalized); r > bestRatio {
			bestIdx, bestRatio = i, r
		}
	}

	if bestIdx < 0 || bestRatio < a.minRatio {
		return Match{}, false
	}
	if bestIdx <= a.cursor {
		// Same-or-stale window: the best candidate is the cursor's own line
		// (or earlier), which must never be surfaced again.
		return Match{}, false
	}

	a.cursor = bestIdx
	line := a.lines[bestIdx]
	return Match{
		Index:       bestIdx,
		Original:    line.Original,
		Translation: line.Translation,
		Ratio:       bestRatio,
	}, true
}

// Cursor returns the index of the most recently accepted line, or -1 when
// nothing has matched yet.
func (a *Aligner) Cursor() int { return a.cursor }

// Len returns the number of reference lines.
func (a *Aligner) Len() int { return len(a.lines) }

// Lines returns the reference sequence. The returned slice must not be
// modified.
func (a *Aligner) Lines() []Line { return a.lines }
