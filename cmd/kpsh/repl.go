package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"kpterm/internal/runtime"
	"kpterm/internal/session"

	"github.com/peterh/liner"
	"github.com/rs/xid"
)

// siteURL is prefixed to navigate routes so they can be opened from a shell.
const siteURL = "https://pc.iitmandi.co.in"

type repl struct {
	d     *runtime.Dispatcher
	store session.Store
	sid   string
	out   io.Writer
}

func newREPL(d *runtime.Dispatcher, store session.Store, out io.Writer) *repl {
	return &repl{d: d, store: store, sid: xid.New().String(), out: out}
}

// Step submits one line and prints what it produced. quit reports an exit
// request.
func (r *repl) Step(ctx context.Context, input string) (quit bool, err error) {
	st, err := r.store.Load(ctx, r.sid)
	if err != nil {
		return false, err
	}
	line, ok := st.Submit(input)
	if !ok {
		return false, nil
	}
	res := r.d.Dispatch(ctx, line, st.History)
	eff := st.Apply(res)
	if err := r.store.Save(ctx, r.sid, st); err != nil {
		return false, err
	}

	switch eff {
	case session.EffectClear:
		fmt.Fprint(r.out, clearScreen)
	case session.EffectClose:
		return true, nil
	case session.EffectNavigate:
		renderLine(r.out, session.Line{Kind: string(runtime.TypeSuccess), Content: res.Output})
		fmt.Fprintln(r.out, routeStyle.Render(siteURL+res.Route))
	default:
		renderLine(r.out, session.Line{Kind: string(res.Type), Content: res.Output})
	}
	return false, nil
}

// Loop reads lines until exit, EOF or Ctrl+C.
func (r *repl) Loop(ctx context.Context) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	st, err := r.store.Load(ctx, r.sid)
	if err != nil {
		return err
	}
	for _, l := range st.Lines {
		renderLine(r.out, l)
	}
	for _, h := range st.History {
		ln.AppendHistory(h)
	}

	for ctx.Err() == nil {
		input, err := ln.Prompt("$ ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.TrimSpace(input))
		}
		quit, err := r.Step(ctx, input)
		if err != nil {
			return err
		}
		if quit {
			fmt.Fprintln(r.out, promptStyle.Render("bye"))
			return nil
		}
	}
	return nil
}
