// Package anyllm provides a [translate.Translator] backed by
// github.com/mozilla-ai/any-llm-go, a unified multi-provider LLM interface
// that supports OpenAI, Anthropic, Gemini, Ollama, DeepSeek, Mistral, Groq,
// and more.
//
// Lyric lines are submitted as a numbered list and the model is instructed
// to return exactly one translated line per input line. The response is
// parsed strictly: a line-count mismatch is an error, never a partial
// result.
//
// Usage:
//
//	tr, err := anyllm.New("openai", "gpt-4o-mini", anyllmlib.WithAPIKey("sk-..."))
//	translations, err := tr.TranslateLines(ctx, lines, "en")
package anyllm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/llamafile"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
	"golang.org/x/sync/errgroup"

	"github.com/abotescu20-maker/lyralign/pkg/provider/translate"
)

// batchSize caps the number of lines per completion request so the response
// stays well inside typical output-token limits.
const batchSize = 50

// maxInflightBatches bounds concurrent completion requests to stay polite
// to provider rate limits.
const maxInflightBatches = 4

const systemPrompt = "You are a professional song lyric translator. " +
	"You receive a numbered list of lyric lines and reply with the same " +
	"numbered list where each line is translated into the requested " +
	"language. Preserve the numbering exactly, translate every line, and " +
	"output nothing else. Keep each translation on a single line."

// Compile-time assertion that Translator implements translate.Translator.
var _ translate.Translator = (*Translator)(nil)

// Translator implements translate.Translator by wrapping any-llm-go.
type Translator struct {
	backend anyllmlib.Provider
	model   string
}

// New creates a Translator backed by the given LLM provider name.
//
// providerName is one of: "openai", "anthropic", "gemini", "ollama",
// "deepseek", "mistral", "groq", "llamacpp", "llamafile".
//
// model is the specific model to use (e.g., "gpt-4o-mini").
//
// opts are any-llm-go configuration options (e.g., anyllmlib.WithAPIKey,
// anyllmlib.WithBaseURL). Without an API key option the provider falls back
// to the relevant environment variable (OPENAI_API_KEY, etc.).
func New(providerName, model string, opts ...anyllmlib.Option) (*Translator, error) {
	if providerName == "" {
		return nil, fmt.Errorf("anyllm: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}

	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}

	return &Translator{backend: backend, model: model}, nil
}

// TranslateLines implements translate.Translator. Batches run concurrently
// up to maxInflightBatches; results keep input order and a failure in any
// batch fails the whole call.
func (t *Translator) TranslateLines(ctx context.Context, lines []string, target string) ([]string, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("anyllm: no lines to translate")
	}
	if target == "" {
		return nil, fmt.Errorf("anyllm: target language must not be empty")
	}

	batches := make([][]string, 0, (len(lines)+batchSize-1)/batchSize)
	for start := 0; start < len(lines); start += batchSize {
		end := min(start+batchSize, len(lines))
		batches = append(batches, lines[start:end])
	}

	results := make([][]string, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxInflightBatches)
	for i, batch := range batches {
		g.Go(func() error {
			translated, err := t.translateBatch(gctx, batch, target)
			if err != nil {
				return err
			}
			results[i] = translated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(lines))
	for _, batch := range results {
		out = append(out, batch...)
	}
	return out, nil
}

func (t *Translator) translateBatch(ctx context.Context, lines []string, target string) ([]string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Translate the following %d lyric lines into %q:\n\n", len(lines), target)
	for i, line := range lines {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, line)
	}

	temp := 0.0
	params := anyllmlib.CompletionParams{
		Model: t.model,
		Messages: []anyllmlib.Message{
			{Role: anyllmlib.RoleSystem, Content: systemPrompt},
			{Role: anyllmlib.RoleUser, Content: prompt.String()},
		},
		Temperature: &temp,
	}

	resp, err := t.backend.Completion(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("anyllm: empty choices in response")
	}

	translations, err := parseNumberedLines(resp.Choices[0].Message.ContentString(), len(lines))
	if err != nil {
		return nil, fmt.Errorf("anyllm: parse response: %w", err)
	}
	return translations, nil
}

// numberedLine matches a leading "12." or "12)" list marker.
var numberedLine = regexp.MustCompile(`^\s*\d+\s*[.)]\s*`)

// parseNumberedLines extracts want translations from a numbered-list
// response. Non-empty lines are taken in order; the list marker is stripped
// when present. A count mismatch is an error.
func parseNumberedLines(content string, want int) ([]string, error) {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, strings.TrimSpace(numberedLine.ReplaceAllString(line, "")))
	}
	if len(out) != want {
		return nil, fmt.Errorf("expected %d lines, got %d", want, len(out))
	}
	return out, nil
}

// createBackend creates the underlying any-llm-go provider for the given
// provider name.
func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	case "llamacpp":
		return llamacpp.New(opts...)
	case "llamafile":
		return llamafile.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q; supported: openai, anthropic, gemini, ollama, deepseek, mistral, groq, llamacpp, llamafile", providerName)
	}
}
