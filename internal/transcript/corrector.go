// Package transcript cleans up speech-recognition output before alignment.
//
// Whisper frequently garbles sung words that a text matcher would otherwise
// anchor on. The [Corrector] snaps transcript words back to the song's own
// vocabulary using a two-stage match:
//
//  1. Phonetic candidate filtering: Double Metaphone codes are computed for
//     the transcript word and every vocabulary word; an overlapping code
//     makes the vocabulary word a candidate.
//  2. Jaro-Winkler ranking: among candidates, the highest-scoring word wins
//     provided it clears the phonetic threshold. When no phonetic candidate
//     exists, a pure Jaro-Winkler pass applies with a stricter fuzzy
//     threshold.
//
// Correction only rewrites transcript text. It never touches the aligner's
// cursor or the reference sequence.
package transcript

import (
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85

	// minWordLen excludes short function words from correction; snapping
	// "the" to "thee" adds noise without helping the aligner.
	minWordLen = 4
)

// punctCutset lists the punctuation stripped from token edges before
// matching.
const punctCutset = ".,!?;:\"'()[]…—-"

// Option is a functional option for configuring a [Corrector].
type Option func(*Corrector)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score required for a
// phonetically-matched vocabulary word to be accepted. Default: 0.70.
func WithPhoneticThreshold(threshold float64) Option {
	return func(c *Corrector) {
		c.phoneticThreshold = threshold
	}
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required when no
// phonetic candidate is found and the corrector falls back to pure string
// similarity. Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(c *Corrector) {
		c.fuzzyThreshold = threshold
	}
}

// vocabEntry is one vocabulary word with its precomputed phonetic codes.
type vocabEntry struct {
	word  string
	codes map[string]struct{}
}

// Corrector snaps garbled transcript words to a fixed vocabulary. Read-only
// after construction and therefore safe for concurrent use.
type Corrector struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
	vocab             []vocabEntry
	known             map[string]struct{}
}

// NewCorrector builds a Corrector from the session's lyric lines. The
// vocabulary is the set of unique lowercased words of at least four
// characters appearing in the lines; phonetic codes are precomputed here so
// Correct stays cheap per transcript.
func NewCorrector(lines []string, opts ...Option) *Corrector {
	c := &Corrector{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
		known:             make(map[string]struct{}),
	}
	for _, o := range opts {
		o(c)
	}

	for _, line := range lines {
		for _, raw := range strings.Fields(strings.ToLower(line)) {
			word := strings.Trim(raw, punctCutset)
			if len([]rune(word)) < minWordLen {
				continue
			}
			if _, seen := c.known[word]; seen {
				continue
			}
			c.known[word] = struct{}{}
			c.vocab = append(c.vocab, vocabEntry{word: word, codes: phoneticCodes(word)})
		}
	}
	return c
}

// Correct rewrites the words of text that confidently match a vocabulary
// word, leaving everything else untouched. Word order and count are
// preserved.
func (c *Corrector) Correct(text string) string {
	if len(c.vocab) == 0 {
		return text
	}

	tokens := strings.Fields(text)
	changed := false
	for i, token := range tokens {
		word := strings.Trim(strings.ToLower(token), punctCutset)
		if len([]rune(word)) < minWordLen {
			continue
		}
		if _, ok := c.known[word]; ok {
			continue // already a vocabulary word
		}
		if replacement, ok := c.match(word); ok {
			tokens[i] = replacement
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(tokens, " ")
}

// match finds the vocabulary word most similar to word, if any clears the
// applicable threshold.
func (c *Corrector) match(word string) (string, bool) {
	wordCodes := phoneticCodes(word)

	var (
		best         string
		bestScore    float64
		bestPhonetic bool
	)

	for _, entry := range c.vocab {
		score := matchr.JaroWinkler(word, entry.word, false)
		if codesOverlap(wordCodes, entry.codes) {
			if score >= c.phoneticThreshold && (!bestPhonetic || score > bestScore) {
				best, bestScore, bestPhonetic = entry.word, score, true
			}
		} else if !bestPhonetic {
			if score >= c.fuzzyThreshold && score > bestScore {
				best, bestScore = entry.word, score
			}
		}
	}

	return best, best != ""
}

// phoneticCodes returns the set of Double Metaphone codes for word. Empty
// codes (word too short or without consonants) are excluded.
func phoneticCodes(word string) map[string]struct{} {
	codes := make(map[string]struct{}, 2)
	p, s := matchr.DoubleMetaphone(word)
	if p != "" {
		codes[p] = struct{}{}
	}
	if s != "" {
		codes[s] = struct{}{}
	}
	return codes
}

// codesOverlap reports whether the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
