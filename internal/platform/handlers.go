package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"kpterm/internal/messages"
	"kpterm/internal/session"
	"kpterm/ui"
	"kpterm/util"

	"github.com/go-chi/chi/v5"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// CommandPublisher is the part of messages.Publisher the handlers need.
type CommandPublisher interface {
	PublishCommand(ctx context.Context, cmd messages.Command) error
}

// Health returns 200 OK.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// publish builds, validates and publishes one terminal command for the
// caller's session. It writes the error response itself and reports false.
func publish(w http.ResponseWriter, r *http.Request, pub CommandPublisher, action string, data map[string]any) bool {
	sid := SessionID(r)
	if sid == "" {
		http.Error(w, "missing session ID", http.StatusBadRequest)
		return false
	}
	cmd, err := messages.BuildCommand(action, sid, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if err := cmd.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("validation error: %v", err), http.StatusBadRequest)
		return false
	}
	if err := pub.PublishCommand(r.Context(), cmd); err != nil {
		slog.Error("terminal: publish", "subject", cmd.Subject(), "err", err)
		http.Error(w, "publish error", http.StatusInternalServerError)
		return false
	}
	return true
}

// TerminalSubmit publishes the prompt's cmd signal and clears the prompt.
func TerminalSubmit(pub CommandPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sig struct {
			Cmd string `json:"cmd"`
		}
		if err := datastar.ReadSignals(r, &sig); err != nil {
			http.Error(w, "bad signals", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(sig.Cmd) == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if !publish(w, r, pub, "command", map[string]any{"cmd": sig.Cmd}) {
			return
		}
		sse := datastar.NewSSE(w, r)
		_ = sse.MarshalAndMergeSignals(map[string]any{"cmd": ""})
	}
}

// TerminalRecall asks the engine to step through history. The recalled
// value reaches the prompt over the /ui stream.
func TerminalRecall(pub CommandPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dir string
		switch chi.URLParam(r, "dir") {
		case "up":
			dir = messages.RecallPrevious
		case "down":
			dir = messages.RecallNext
		default:
			http.Error(w, "unknown direction", http.StatusBadRequest)
			return
		}
		if !publish(w, r, pub, "recall", map[string]any{"direction": dir}) {
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

// TerminalReset closes the terminal and discards its session.
func TerminalReset(pub CommandPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !publish(w, r, pub, "reset", nil) {
			return
		}
		sse := datastar.NewSSE(w, r)
		_ = sse.MarshalAndMergeSignals(map[string]any{"cmd": "", "open": false})
	}
}

// PageHandler serves the route pages with the terminal seeded from the
// caller's stored session.
func PageHandler(md *util.Markdown, store session.Store) http.HandlerFunc {
	known := make(map[string]bool, len(ui.Nav))
	for _, item := range ui.Nav {
		known[item.Label] = true
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "page")
		if name == "" {
			name = "home"
		}
		if !known[name] {
			http.NotFound(w, r)
			return
		}
		body, err := md.Render("pages/"+name+".md", "")
		if err != nil {
			slog.Error("page: render", "page", name, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		st, err := store.Load(r.Context(), SessionID(r))
		if err != nil {
			slog.Warn("page: load session", "err", err)
			st = session.New()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		title := strings.ToUpper(name[:1]) + name[1:]
		if err := ui.Page(title, name, body, st).Render(r.Context(), w); err != nil {
			slog.Warn("page: write", "page", name, "err", err)
		}
	}
}
