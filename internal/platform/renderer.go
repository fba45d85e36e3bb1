package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"kpterm/util"

	"github.com/a-h/templ"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// Sink is what renderers write to. The SSE generator is wrapped so that the
// KV watcher and the event consumer can share one stream.
type Sink interface {
	MergeFragment(c templ.Component, opts ...datastar.MergeFragmentOption) error
	MergeSignals(v any) error
	Redirect(url string) error
}

type lockedSink struct {
	mu  sync.Mutex
	sse *datastar.ServerSentEventGenerator
}

func newLockedSink(sse *datastar.ServerSentEventGenerator) *lockedSink {
	return &lockedSink{sse: sse}
}

func (s *lockedSink) MergeFragment(c templ.Component, opts ...datastar.MergeFragmentOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sse.MergeFragmentTempl(c, opts...)
}

func (s *lockedSink) MergeSignals(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sse.MarshalAndMergeSignals(v)
}

func (s *lockedSink) Redirect(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sse.Redirect(url)
}

// RenderFunc renders one event payload into the sink.
type RenderFunc func(ctx context.Context, subject string, data []byte, sink Sink) error

type Renderer struct {
	Pattern    string
	MatchFunc  func(string) bool
	RenderFunc RenderFunc
}

// RendererSpec is a catalogue entry: a wildcard pattern and a factory that
// builds a concrete Renderer for a subscription subject matching it.
type RendererSpec struct {
	Pattern string
	Build   func(subj string) Renderer
}

// ForSubjects materialises a renderer for every (subject, spec) pair where
// the subject matches the entry pattern. The fallback renderer is always last.
func ForSubjects(subjects []string) []Renderer {
	out := make([]Renderer, 0, len(specs)+1)
	seen := make(map[string]struct{})
	for _, s := range subjects {
		for _, spec := range specs {
			if !util.SubjectMatches(spec.Pattern, s) {
				continue
			}
			key := spec.Pattern + "|" + s
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, spec.Build(s))
		}
	}
	return append(out, fallback)
}

// Render hands the message to the first matching renderer.
func Render(ctx context.Context, renderers []Renderer, subject string, data []byte, sink Sink) error {
	for _, r := range renderers {
		if r.MatchFunc(subject) {
			return r.RenderFunc(ctx, subject, data, sink)
		}
	}
	return nil
}

func newRenderer(pattern string, fn RenderFunc) Renderer {
	return Renderer{
		Pattern:    pattern,
		MatchFunc:  func(subj string) bool { return util.SubjectMatches(pattern, subj) },
		RenderFunc: fn,
	}
}

// newTypedRenderer decodes the JSON payload into T and invokes handler.
func newTypedRenderer[T any](pattern string, handler func(context.Context, Sink, T) error) Renderer {
	return newRenderer(pattern, func(ctx context.Context, subject string, data []byte, sink Sink) error {
		var p T
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("decode %T: %w", p, err)
		}
		return handler(ctx, sink, p)
	})
}

// fallback drops anything no renderer claimed.
var fallback = newRenderer(">", func(_ context.Context, subject string, _ []byte, _ Sink) error {
	slog.Debug("ui: no renderer", "subject", subject)
	return nil
})
