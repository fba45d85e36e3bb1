package platform

import (
	"context"

	"kpterm/internal/messages"
	"kpterm/internal/session"
	components "kpterm/ui/components"

	datastar "github.com/starfederation/datastar/sdk/go"
)

// Transcript content is driven by the sessions KV watch; these renderers
// only carry the side effects an event asks the browser to perform.
var specs = []RendererSpec{
	{
		Pattern: messages.TerminalResultSubjectPattern,
		Build: func(string) Renderer {
			return newTypedRenderer(messages.TerminalResultSubjectPattern, renderResult)
		},
	},
	{
		Pattern: messages.TerminalRecalledSubjectPattern,
		Build: func(string) Renderer {
			return newTypedRenderer(messages.TerminalRecalledSubjectPattern, renderRecall)
		},
	},
	{
		Pattern: messages.TerminalResetDoneSubjectPattern,
		Build: func(string) Renderer {
			return newTypedRenderer(messages.TerminalResetDoneSubjectPattern, renderReset)
		},
	},
}

type promptSignals struct {
	Cmd  *string `json:"cmd,omitempty"`
	Open *bool   `json:"open,omitempty"`
}

func ptr[T any](v T) *T { return &v }

func renderResult(_ context.Context, sink Sink, evt messages.TerminalResultEvent) error {
	sig := promptSignals{Cmd: ptr("")}
	switch session.Effect(evt.Effect) {
	case session.EffectNavigate:
		if err := sink.MergeSignals(sig); err != nil {
			return err
		}
		return sink.Redirect(evt.Route)
	case session.EffectClose:
		sig.Open = ptr(false)
	}
	return sink.MergeSignals(sig)
}

func renderRecall(_ context.Context, sink Sink, evt messages.TerminalRecallEvent) error {
	return sink.MergeSignals(promptSignals{Cmd: ptr(evt.Value)})
}

func renderReset(_ context.Context, sink Sink, _ messages.TerminalResetEvent) error {
	return sink.MergeSignals(promptSignals{Cmd: ptr(""), Open: ptr(false)})
}

// renderTranscript replaces the transcript container with st.
func renderTranscript(sink Sink, st *session.State) error {
	return sink.MergeFragment(components.Transcript(st), datastar.WithSelectorID(components.TranscriptID))
}
