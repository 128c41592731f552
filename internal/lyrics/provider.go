// Package lyrics fetches and normalises song lyric lines.
//
// Lines can come from a lyrics.ovh-compatible HTTP API or from a local text
// file. Either way the result is the same: an ordered, non-empty list of
// whitespace-collapsed lines with blanks removed, consumed once at session
// start by the aligner.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.lyrics.ovh/v1"

// ErrEmpty is returned when a lyrics source yields no usable lines after
// normalisation.
var ErrEmpty = errors.New("lyrics: no lyric lines available after normalisation")

// Option is a functional option for configuring a [Provider].
type Option func(*Provider)

// WithBaseURL overrides the lyrics API base URL
// (default "https://api.lyrics.ovh/v1").
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client (10 s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithCache attaches a [Cache]. Fetch consults the cache before the API and
// stores successful lookups. Cache failures are logged and never fail a
// fetch.
func WithCache(c *Cache) Option {
	return func(p *Provider) {
		p.cache = c
	}
}

// Provider fetches and normalises song lyrics. Safe for concurrent use.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

// NewProvider returns a Provider configured with the supplied options.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Fetch retrieves the lyrics for artist/title from the API and returns the
// normalised lines.
func (p *Provider) Fetch(ctx context.Context, artist, title string) ([]string, error) {
	if artist == "" || title == "" {
		return nil, errors.New("lyrics: artist and title must not be empty")
	}

	if p.cache != nil {
		if lines, ok := p.cache.Get(ctx, artist, title); ok {
			slog.Debug("lyrics cache hit", "artist", artist, "title", title)
			return lines, nil
		}
	}

	endpoint := fmt.Sprintf("%s/%s/%s", p.baseURL, url.PathEscape(artist), url.PathEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("lyrics: create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lyrics: fetch %q/%q: %w", artist, title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lyrics: API returned HTTP %d for %q/%q", resp.StatusCode, artist, title)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lyrics: read response body: %w", err)
	}

	var result struct {
		Lyrics string `json:"lyrics"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("lyrics: parse JSON response: %w", err)
	}
	if result.Lyrics == "" {
		return nil, fmt.Errorf("lyrics: API returned empty text for %q/%q", artist, title)
	}

	lines, err := Normalize(strings.Split(result.Lyrics, "\n"))
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Set(ctx, artist, title, lines)
	}
	return lines, nil
}

// LoadFile reads lyrics from a plain text file and returns the normalised
// lines.
func LoadFile(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lyrics: read %q: %w", path, err)
	}
	return Normalize(strings.Split(string(content), "\n"))
}

// Normalize trims each line, collapses internal whitespace runs to single
// spaces, and drops blank lines. Returns [ErrEmpty] when nothing remains.
func Normalize(lines []string) ([]string, error) {
	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		normalized = append(normalized, strings.Join(fields, " "))
	}
	if len(normalized) == 0 {
		return nil, ErrEmpty
	}
	return normalized, nil
}
