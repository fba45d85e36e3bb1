package components

import (
	"context"
	"fmt"
	"io"

	"kpterm/internal/session"

	"github.com/a-h/templ"
)

// TranscriptID is the element id the SSE stream morphs into.
const TranscriptID = "transcript"

// Transcript renders every transcript line of st.
func Transcript(st *session.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div id="%s" class="terminal-output" data-seq="%d">`, TranscriptID, st.Seq); err != nil {
			return err
		}
		for _, l := range st.Lines {
			if err := TranscriptLine(l).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}

// TranscriptLine renders one line, styled by kind.
func TranscriptLine(l session.Line) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<pre class="line line-%s">%s</pre>`,
			templ.EscapeString(l.Kind), templ.EscapeString(l.Content))
		return err
	})
}

// TerminalPrompt is the input row. Enter submits, arrows recall history.
func TerminalPrompt() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<form id="live-prompt" class="prompt" data-on-submit="@post('/terminal')">`+
			`<span class="prompt-sigil">$</span>`+
			`<input id="cmd" type="text" autocomplete="off" spellcheck="false" autofocus data-bind-cmd `+
			`data-on-keydown="evt.key === 'ArrowUp' ? (evt.preventDefault(), @post('/terminal/recall/up')) : evt.key === 'ArrowDown' ? (evt.preventDefault(), @post('/terminal/recall/down')) : null">`+
			`</form>`)
		return err
	})
}

// TerminalWindow is the floating terminal: title bar, transcript and prompt.
// Its visibility follows the open signal; the close button resets the session.
func TerminalWindow(st *session.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section id="terminal" class="terminal" data-show="$open" data-on-load="@get('/ui')">`+
			`<header class="terminal-bar">`+
			`<button class="dot dot-close" title="Close and clear" data-on-click="@post('/terminal/reset')"></button>`+
			`<button class="dot dot-min" title="Minimize" data-on-click="$open = false"></button>`+
			`<span class="terminal-title">kamand-prompt: zsh</span>`+
			`</header>`); err != nil {
			return err
		}
		if err := Transcript(st).Render(ctx, w); err != nil {
			return err
		}
		if err := TerminalPrompt().Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`+
			`<button id="terminal-toggle" class="terminal-toggle" data-show="!$open" data-on-click="$open = true">&gt;_</button>`)
		return err
	})
}
