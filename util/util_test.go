package util

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		pattern, subj string
		want          bool
	}{
		{"event.terminal.session.*.result", "event.terminal.session.abc.result", true},
		{"event.terminal.session.*.result", "event.terminal.session.abc.recall", false},
		{"event.terminal.session.abc.>", "event.terminal.session.abc.reset", true},
		{"event.terminal.session.abc.>", "event.terminal.session.xyz.reset", false},
		{">", "anything.at.all", true},
		{"a.*", "a", false},
		{"a.b", "a.b.c", false},
		{"a.>", "a", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SubjectMatches(tc.pattern, tc.subj), "%s ~ %s", tc.pattern, tc.subj)
	}
}

func TestCapture(t *testing.T) {
	caps, ok := Capture("terminal.session.*.*", "terminal.session.abc.command")
	require.True(t, ok)
	assert.Equal(t, []string{"abc", "command"}, caps)

	caps, ok = Capture("event.>", "event.terminal.session.abc.result")
	require.True(t, ok)
	assert.Equal(t, []string{"terminal.session.abc.result"}, caps)

	_, ok = Capture("terminal.session.*.*", "terminal.session..command")
	assert.False(t, ok, "empty tokens never match a wildcard")
}

func TestMarkdownRender(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/home.md": {Data: []byte("# Hello\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")},
		"main.go":       {Data: []byte("package main\n")},
	}
	m := NewMarkdown(fsys)

	comp, err := m.Render("pages/home.md", "")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, comp.Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<h1")
	assert.Contains(t, buf.String(), "<table>")

	code, err := m.Render("main.go", "")
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, code.Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<pre")

	_, err = m.Render("pages/missing.md", "")
	assert.Error(t, err)
}
