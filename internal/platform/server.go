package platform

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"kpterm/internal/messages"
	"kpterm/internal/session"
	"kpterm/ui"
	"kpterm/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const cookieName = "kpterm"

// HTTPServerConfig holds HTTP server tunables.
type HTTPServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	EnableTLS    bool   // whether to use HTTPS
	CertFile     string // path to TLS certificate
	KeyFile      string // path to TLS private key
	SessionKey   string // cookie signing key
}

// SessionMiddleware assigns a session id cookie and puts the id in the
// request context.
func SessionMiddleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := store.Get(r, cookieName)
			id, ok := sess.Values["id"].(string)
			if !ok || id == "" {
				id = uuid.NewString()
				sess.Values["id"] = id
				sess.Options = &sessions.Options{
					Path:     "/",
					MaxAge:   60 * 60 * 24 * 7, // 1 week
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				}
				if err := sess.Save(r, w); err != nil {
					slog.Warn("session: save cookie", "err", err)
				}
			}
			ctx := context.WithValue(r.Context(), sessionCtxKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRouter wires every route onto a chi router.
func NewRouter(js jetstream.JetStream, store *session.KVStore, cfg HTTPServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(SessionMiddleware(sessions.NewCookieStore([]byte(cfg.SessionKey))))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chiLogger)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/health", Health)

	pub := messages.NewPublisher(js)
	r.Post("/terminal", TerminalSubmit(pub))
	r.Post("/terminal/recall/{dir}", TerminalRecall(pub))
	r.Post("/terminal/reset", TerminalReset(pub))
	r.Get("/ui", UIStream(js, store))

	staticFS, _ := fs.Sub(ui.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/favicon.svg", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(ui.FaviconSVG)
	}))

	pages := PageHandler(util.NewMarkdown(ui.Pages), store)
	r.Get("/", pages)
	r.Get("/{page}", pages)
	return r
}

// RunHTTPServer starts an HTTP server and returns a channel that will receive
// an error when the server exits (gracefully or not).
func RunHTTPServer(ctx context.Context, js jetstream.JetStream, store *session.KVStore, cfg HTTPServerConfig) <-chan error {
	errCh := make(chan error, 1)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(js, store, cfg),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errCh <- err
			return
		}
		errCh <- ctx.Err()
	}()

	go func() {
		slog.Info("http: listening", "addr", srv.Addr, "tls", cfg.EnableTLS)
		var err error
		if cfg.EnableTLS {
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return errCh
}

// chiLogger records access logs and request metrics.
func chiLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		duration := time.Since(t0)
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, routePattern, fmt.Sprint(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, routePattern).Observe(duration.Seconds())
		slog.Info("http", "method", r.Method, "path", r.URL.Path, "route", routePattern,
			"status", status, "duration", duration, "request_id", middleware.GetReqID(r.Context()))
	})
}

type sessionCtxKey struct{}

// SessionID returns the session ID from the request context.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionCtxKey{}).(string)
	return id
}
