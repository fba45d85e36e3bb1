package ui

import (
	"context"
	"embed"
	"fmt"
	"io"

	"kpterm/internal/session"
	components "kpterm/ui/components"

	"github.com/a-h/templ"
)

//go:embed static/*
var StaticFS embed.FS

//go:embed static/favicon.svg
var FaviconSVG []byte

// Pages holds the Markdown body of every site page.
//
//go:embed pages/*.md
var Pages embed.FS

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-beta.11/bundles/datastar.js"

// autoscroll keeps the newest transcript line in view after each morph.
const autoscroll = `<script>new MutationObserver(() => {` +
	`const t = document.getElementById('transcript'); if (t) t.scrollTop = t.scrollHeight;` +
	`}).observe(document.body, {childList: true, subtree: true});</script>`

// NavItem is one entry of the site navigation.
type NavItem struct {
	Path  string
	Label string
}

// Nav lists the site pages in display order.
var Nav = []NavItem{
	{"/", "home"},
	{"/gsoc", "gsoc"},
	{"/teams", "teams"},
	{"/compete", "compete"},
	{"/events", "events"},
	{"/resources", "resources"},
	{"/contact", "contact"},
}

// Page is the full document: navigation, the page body and the floating
// terminal seeded with st.
func Page(title, active string, body templ.Component, st *session.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head>`+
			`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s | Kamand Prompt</title>`+
			`<link rel="icon" type="image/svg+xml" href="/favicon.svg">`+
			`<link rel="stylesheet" href="/static/terminal.css">`+
			`<script type="module" src="%s"></script>`+
			`</head><body data-signals="{cmd: '', open: true}"><nav class="site-nav">`,
			templ.EscapeString(title), datastarScript); err != nil {
			return err
		}
		for _, item := range Nav {
			class := "nav-link"
			if item.Label == active {
				class += " active"
			}
			if _, err := fmt.Fprintf(w, `<a class="%s" href="%s">%s</a>`, class, item.Path, item.Label); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</nav><main class="page">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</main>`); err != nil {
			return err
		}
		if err := components.TerminalWindow(st).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, autoscroll+`</body></html>`)
		return err
	})
}
