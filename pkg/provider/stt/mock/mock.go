// Package mock provides a test double for the stt.Provider interface.
//
// Use Provider to feed scripted transcript texts to the pipeline and inspect
// which sample buffers were submitted:
//
//	p := &mock.Provider{Results: []string{"hello world", ""}}
//	text, err := p.Transcribe(ctx, samples, 16000)
package mock

import (
	"context"
	"sync"

	"github.com/abotescu20-maker/lyralign/pkg/provider/stt"
)

// TranscribeCall records a single invocation of Provider.Transcribe.
type TranscribeCall struct {
	// Samples is the buffer passed to Transcribe.
	Samples []float32
	// SampleRate is the rate passed to Transcribe.
	SampleRate int
}

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Provider is a mock implementation of stt.Provider. Set the exported fields
// before use; inspect Calls after. Safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	// Results are returned by successive Transcribe calls in order. Once
	// exhausted, Transcribe returns "".
	Results []string

	// Err, if non-nil, is returned as the error from every Transcribe call.
	Err error

	// TranscribeFunc, if non-nil, overrides the scripted behaviour entirely.
	TranscribeFunc func(ctx context.Context, samples []float32, sampleRate int) (string, error)

	// Calls records every Transcribe invocation.
	Calls []TranscribeCall

	next int
}

// Transcribe implements stt.Provider.
func (p *Provider) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	p.mu.Lock()
	buf := make([]float32, len(samples))
	copy(buf, samples)
	p.Calls = append(p.Calls, TranscribeCall{Samples: buf, SampleRate: sampleRate})
	fn := p.TranscribeFunc
	err := p.Err
	var result string
	if p.next < len(p.Results) {
		result = p.Results[p.next]
		p.next++
	}
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, samples, sampleRate)
	}
	if err != nil {
		return "", err
	}
	return result, nil
}

// CallCount returns the number of Transcribe invocations so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}
