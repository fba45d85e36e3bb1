package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"kpterm/internal/messages"
	"kpterm/internal/runtime"
	"kpterm/internal/session"

	"github.com/a-h/templ"
	datastar "github.com/starfederation/datastar/sdk/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	fragments []string
	signals   []map[string]any
	redirects []string
}

func (s *fakeSink) MergeFragment(c templ.Component, _ ...datastar.MergeFragmentOption) error {
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		return err
	}
	s.fragments = append(s.fragments, buf.String())
	return nil
}

func (s *fakeSink) MergeSignals(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	s.signals = append(s.signals, m)
	return nil
}

func (s *fakeSink) Redirect(url string) error {
	s.redirects = append(s.redirects, url)
	return nil
}

func renderEvent(t *testing.T, evt messages.Event) *fakeSink {
	t.Helper()
	data, err := json.Marshal(evt)
	require.NoError(t, err)
	sink := &fakeSink{}
	renderers := ForSubjects([]string{
		messages.TerminalResultSubject("s1"),
		messages.TerminalRecalledSubject("s1"),
		messages.TerminalResetDoneSubject("s1"),
	})
	require.NoError(t, Render(context.Background(), renderers, evt.Subject(), data, sink))
	return sink
}

func TestForSubjectsEndsWithFallback(t *testing.T) {
	rs := ForSubjects([]string{messages.TerminalResultSubject("s1"), messages.TerminalResultSubject("s1")})
	require.Len(t, rs, 2)
	assert.Equal(t, messages.TerminalResultSubjectPattern, rs[0].Pattern)
	assert.Equal(t, ">", rs[1].Pattern)
}

func TestRenderResultClearsPrompt(t *testing.T) {
	sink := renderEvent(t, messages.NewTerminalResultEvent("s1", "about", "text", "info").WithSeq(2))
	require.Len(t, sink.signals, 1)
	assert.Equal(t, map[string]any{"cmd": ""}, sink.signals[0])
	assert.Empty(t, sink.redirects)
}

func TestRenderResultNavigates(t *testing.T) {
	evt := messages.NewTerminalResultEvent("s1", "cd gsoc", "Navigating to gsoc...", "navigate").
		WithRoute("/gsoc").
		WithEffect(string(session.EffectNavigate))
	sink := renderEvent(t, evt)
	assert.Equal(t, []string{"/gsoc"}, sink.redirects)
}

func TestRenderResultCloses(t *testing.T) {
	evt := messages.NewTerminalResultEvent("s1", "exit", "", "exit").WithEffect(string(session.EffectClose))
	sink := renderEvent(t, evt)
	require.Len(t, sink.signals, 1)
	assert.Equal(t, false, sink.signals[0]["open"])
}

func TestRenderRecallAndReset(t *testing.T) {
	sink := renderEvent(t, messages.NewTerminalRecallEvent("s1", "whoami", 4))
	assert.Equal(t, []map[string]any{{"cmd": "whoami"}}, sink.signals)

	sink = renderEvent(t, messages.NewTerminalRecallEvent("s1", "", 5))
	assert.Equal(t, []map[string]any{{"cmd": ""}}, sink.signals, "an empty recall still clears the prompt")

	sink = renderEvent(t, messages.NewTerminalResetEvent("s1", 6))
	assert.Equal(t, []map[string]any{{"cmd": "", "open": false}}, sink.signals)
}

func TestRenderRejectsUnknownFields(t *testing.T) {
	rs := ForSubjects([]string{messages.TerminalResultSubject("s1")})
	err := Render(context.Background(), rs, messages.TerminalResultSubject("s1"), []byte(`{"bogus":1}`), &fakeSink{})
	assert.Error(t, err)
}

func TestRenderTranscript(t *testing.T) {
	st := session.New()
	st.Submit("echo <b>")
	st.Apply(runtime.Info("<b>"))
	sink := &fakeSink{}
	require.NoError(t, renderTranscript(sink, st))
	require.Len(t, sink.fragments, 1)
	assert.Contains(t, sink.fragments[0], `id="transcript"`)
	assert.Contains(t, sink.fragments[0], "&lt;b&gt;")
	assert.NotContains(t, sink.fragments[0], "<b>")
}

func TestSeqOf(t *testing.T) {
	assert.Equal(t, uint64(7), seqOf([]byte(`{"seq":7}`)))
	assert.Zero(t, seqOf([]byte(`not json`)))
}
