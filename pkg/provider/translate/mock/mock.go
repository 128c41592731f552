// Package mock provides a test double for the translate.Translator
// interface.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/abotescu20-maker/lyralign/pkg/provider/translate"
)

// Compile-time assertion that Translator implements translate.Translator.
var _ translate.Translator = (*Translator)(nil)

// Translator is a mock implementation of translate.Translator. Safe for
// concurrent use.
type Translator struct {
	mu sync.Mutex

	// Result, when non-nil, is returned verbatim by TranslateLines.
	// When nil, each line is returned as "<line> [<target>]".
	Result []string

	// Err, if non-nil, is returned as the error from TranslateLines.
	Err error

	// Calls records the line lists passed to TranslateLines.
	Calls [][]string
}

// TranslateLines implements translate.Translator.
func (t *Translator) TranslateLines(_ context.Context, lines []string, target string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	copied := make([]string, len(lines))
	copy(copied, lines)
	t.Calls = append(t.Calls, copied)

	if t.Err != nil {
		return nil, t.Err
	}
	if t.Result != nil {
		return t.Result, nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = fmt.Sprintf("%s [%s]", line, target)
	}
	return out, nil
}
