// Package session holds the per-terminal state a host keeps between
// submissions: the visible transcript, the submitted history and the recall
// cursor. State is applied to strictly one result at a time; callers that
// share a State across goroutines must serialise access themselves.
package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"kpterm/internal/runtime"
)

// KindCommand marks an echoed input line in the transcript. Every other
// line kind is a runtime.ResultType.
const KindCommand = "command"

// NoCursor means no history entry is being recalled.
const NoCursor = -1

// Transcript and history are capped so a long-lived session stays within
// the KV value size limit. The oldest entries are dropped first.
const (
	MaxLines   = 1000
	MaxHistory = 500
)

// Line is one rendered entry of the transcript.
type Line struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Effect is the host side effect requested by an applied result.
type Effect string

const (
	EffectNone     Effect = ""
	EffectClear    Effect = "clear"
	EffectClose    Effect = "close"
	EffectNavigate Effect = "navigate"
)

// State is one terminal session.
type State struct {
	Lines   []Line   `json:"lines"`
	History []string `json:"history"`
	// Cursor counts back from the newest history entry; NoCursor when idle.
	Cursor int `json:"cursor"`
	// Seq increases on every mutation so stream consumers can skip what
	// they already rendered.
	Seq uint64 `json:"seq"`
}

// New returns a fresh session showing the welcome banner.
func New() *State {
	return &State{
		Lines:   []Line{{Kind: string(runtime.TypeInfo), Content: runtime.WelcomeMessage}},
		History: []string{},
		Cursor:  NoCursor,
	}
}

// Load parses a stored session.
func Load(raw []byte) (*State, error) {
	st := New()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if st.Cursor < NoCursor || st.Cursor >= len(st.History) {
		st.Cursor = NoCursor
	}
	return st, nil
}

// Raw encodes st for storage.
func (st *State) Raw() ([]byte, error) {
	return json.Marshal(st)
}

// Clone returns a deep copy.
func (st *State) Clone() *State {
	c := *st
	c.Lines = append([]Line(nil), st.Lines...)
	c.History = append([]string(nil), st.History...)
	return &c
}

// Submit records a submitted line. Blank input is ignored and reported with
// ok false; the host must not dispatch it. Otherwise the raw input is
// appended to history, the cursor is reset and the trimmed line is echoed
// into the transcript and returned for dispatch.
func (st *State) Submit(raw string) (cmd string, ok bool) {
	cmd = strings.TrimSpace(raw)
	if cmd == "" {
		return "", false
	}
	st.History = appendCapped(st.History, raw, MaxHistory)
	st.Cursor = NoCursor
	st.appendLine(Line{Kind: KindCommand, Content: "$ " + cmd})
	st.Seq++
	return cmd, true
}

// Apply folds one dispatch result into the transcript and reports the side
// effect the host must perform.
func (st *State) Apply(res runtime.CommandResult) Effect {
	defer func() { st.Seq++ }()
	switch res.Type {
	case runtime.TypeClear:
		st.Lines = []Line{}
		return EffectClear
	case runtime.TypeExit:
		return EffectClose
	case runtime.TypeNavigate:
		st.appendLine(Line{Kind: string(runtime.TypeSuccess), Content: res.Output})
		return EffectNavigate
	default:
		st.appendLine(Line{Kind: string(res.Type), Content: res.Output})
		return EffectNone
	}
}

// RecallPrevious steps one entry further into the past and returns it. At
// the oldest entry it stays put. ok is false when history is empty.
func (st *State) RecallPrevious() (string, bool) {
	if len(st.History) == 0 {
		return "", false
	}
	if st.Cursor < len(st.History)-1 {
		st.Cursor++
	}
	st.Seq++
	return st.History[len(st.History)-1-st.Cursor], true
}

// RecallNext steps back toward the newest entry. Stepping past the newest
// clears the input and the cursor. ok is false when nothing is recalled.
func (st *State) RecallNext() (string, bool) {
	switch {
	case st.Cursor > 0:
		st.Cursor--
		st.Seq++
		return st.History[len(st.History)-1-st.Cursor], true
	case st.Cursor == 0:
		st.Cursor = NoCursor
		st.Seq++
		return "", true
	}
	return "", false
}

// ResetOnClose discards transcript and history, keeping Seq monotonic.
func (st *State) ResetOnClose() {
	seq := st.Seq
	*st = *New()
	st.Seq = seq + 1
}

func (st *State) appendLine(l Line) {
	st.Lines = append(st.Lines, l)
	if n := len(st.Lines) - MaxLines; n > 0 {
		st.Lines = append([]Line(nil), st.Lines[n:]...)
	}
}

func appendCapped(s []string, v string, max int) []string {
	s = append(s, v)
	if n := len(s) - max; n > 0 {
		s = append([]string(nil), s[n:]...)
	}
	return s
}
