// Package content is the data-access layer for the externally hosted JSON
// documents (events, team roster, GSoC history, competitions, projects and
// learning resources).
//
// Documents are fetched from a configurable base URL, optionally patched by a
// local overlay, validated against an embedded JSON Schema and memoized per
// endpoint. Failed fetches are never cached.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL hosts the public website data.
const DefaultBaseURL = "https://raw.githubusercontent.com/KamandPrompt/website-data/main"

const maxDocumentBytes = 4 << 20

// Config holds Client tunables.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	OverlayDir string // empty disables overlays
}

// Client fetches and memoizes content documents. Safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	overlayDir string
	schemas    map[Doc]*jsonschema.Schema

	mu    sync.RWMutex
	cache map[Doc][]byte
	group singleflight.Group
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a Client and compiles the document schemas.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    base,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		overlayDir: cfg.OverlayDir,
		schemas:    schemas,
		cache:      make(map[Doc][]byte),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Raw returns the validated JSON bytes of d.
func (c *Client) Raw(ctx context.Context, d Doc) ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDoc, d)
	}
	c.mu.RLock()
	data, ok := c.cache[d]
	c.mu.RUnlock()
	if ok {
		FetchTotal.WithLabelValues(string(d), "hit").Inc()
		return data, nil
	}

	// The shared fetch outlives any single caller; each caller still gives
	// up on its own ctx.
	ch := c.group.DoChan(string(d), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.load(fctx, d)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	case <-ctx.Done():
		FetchTotal.WithLabelValues(string(d), "abandoned").Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, d.Endpoint(), ctx.Err())
	}
}

func (c *Client) load(ctx context.Context, d Doc) ([]byte, error) {
	endpoint := d.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, endpoint, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		FetchTotal.WithLabelValues(string(d), "error").Inc()
		slog.Warn("content: fetch", "endpoint", endpoint, "err", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		FetchTotal.WithLabelValues(string(d), "error").Inc()
		slog.Warn("content: fetch", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &FetchError{Endpoint: endpoint, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		FetchTotal.WithLabelValues(string(d), "error").Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, endpoint, err)
	}

	data, err = c.applyOverlay(d, data)
	if err != nil {
		FetchTotal.WithLabelValues(string(d), "invalid").Inc()
		return nil, err
	}
	if err := c.validate(d, data); err != nil {
		FetchTotal.WithLabelValues(string(d), "invalid").Inc()
		slog.Warn("content: validate", "doc", d, "err", err)
		return nil, err
	}

	c.mu.Lock()
	c.cache[d] = data
	c.mu.Unlock()
	FetchTotal.WithLabelValues(string(d), "ok").Inc()
	return data, nil
}

// ClearCache drops every memoized document.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[Doc][]byte)
	c.mu.Unlock()
}

func decode[T any](ctx context.Context, c *Client, d Doc) (T, error) {
	var out T
	data, err := c.Raw(ctx, d)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, d, err)
	}
	return out, nil
}

// Events fetches the events document.
func (c *Client) Events(ctx context.Context) (EventsDoc, error) {
	return decode[EventsDoc](ctx, c, DocEvents)
}

// Team fetches the full member roster.
func (c *Client) Team(ctx context.Context) ([]Member, error) {
	return decode[[]Member](ctx, c, DocTeam)
}

// GSoC fetches the GSoC history.
func (c *Client) GSoC(ctx context.Context) (GSoCDoc, error) {
	return decode[GSoCDoc](ctx, c, DocGSoC)
}

// Competitions fetches the competitions document.
func (c *Client) Competitions(ctx context.Context) (CompetitionsDoc, error) {
	return decode[CompetitionsDoc](ctx, c, DocCompetitions)
}

// Projects fetches the project list.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	return decode[[]Project](ctx, c, DocProjects)
}

// Resources fetches the learning resources.
func (c *Client) Resources(ctx context.Context) (ResourcesDoc, error) {
	return decode[ResourcesDoc](ctx, c, DocResources)
}

// GetAssetURL turns a relative asset path into an absolute URL under the
// base URL. Absolute http(s) URLs are returned unchanged. A path without a
// leading slash is placed under prefix when one is given.
func (c *Client) GetAssetURL(path, prefix string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	full := path
	if !strings.HasPrefix(path, "/") && prefix != "" {
		full = strings.TrimRight(prefix, "/") + "/" + path
	}
	return c.baseURL + "/" + strings.TrimPrefix(full, "/")
}
