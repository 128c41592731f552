// Package translate defines the Translator interface for line translation
// backends.
//
// A Translator receives the full ordered list of lyric lines once at session
// start and returns a same-length ordered list of translations. The
// alignment pipeline zips the two lists positionally, so implementations
// must preserve both order and count.
package translate

import "context"

// Translator is the abstraction over any translation backend.
//
// Implementations must be safe for concurrent use.
type Translator interface {
	// TranslateLines translates lines into the target language (ISO-639-1
	// code, e.g. "en", "de"). The returned slice has exactly one entry per
	// input line, in input order. An implementation that cannot guarantee
	// the count must return an error rather than a partial result.
	TranslateLines(ctx context.Context, lines []string, target string) ([]string, error)
}
