package util

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	hl "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders Markdown or source files from an fs.FS to HTML. Each
// file is converted once and memoised.
type Markdown struct {
	fsys  fs.FS
	md    goldmark.Markdown
	cache sync.Map // map[string]string
}

func NewMarkdown(fsys fs.FS) *Markdown {
	return &Markdown{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				hl.NewHighlighting(hl.WithStyle("github")), // inline colours
			),
		),
	}
}

// Render converts name to HTML. Non-markdown files are wrapped in a fenced
// code block so they get highlighted; lang overrides the extension.
func (m *Markdown) Render(name, lang string) (templ.Component, error) {
	key := name + "|" + lang
	if v, ok := m.cache.Load(key); ok {
		return templ.Raw(v.(string)), nil
	}

	src, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return nil, err
	}

	if lang == "" {
		lang = strings.TrimPrefix(path.Ext(name), ".")
	}
	if lang != "" && lang != "md" && lang != "markdown" {
		src = append([]byte("```"+lang+"\n"), append(src, []byte("\n```")...)...)
	}

	var buf bytes.Buffer
	if err := m.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	html := buf.String()
	m.cache.Store(key, html)
	return templ.Raw(html), nil
}
