package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsJSON = `{"events":[{"id":1,"title":"Winter of Code","date":"Dec 2025","category":"Workshop"}]}`

func newTestServer(t *testing.T, routes map[string]string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(t *testing.T, baseURL string, overlayDir string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: baseURL, OverlayDir: overlayDir})
	require.NoError(t, err)
	return c
}

func TestEventsDecodesAndMemoizes(t *testing.T) {
	srv, hits := newTestServer(t, map[string]string{"/events/events.json": eventsJSON})
	c := newTestClient(t, srv.URL, "")

	doc, err := c.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Events, 1)
	assert.Equal(t, "Winter of Code", doc.Events[0].Title)
	assert.Equal(t, "Workshop", doc.Events[0].Category)

	_, err = c.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second lookup should hit the cache")

	c.ClearCache()
	_, err = c.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNotFoundIsFetchErrorAndNotCached(t *testing.T) {
	srv, hits := newTestServer(t, map[string]string{})
	c := newTestClient(t, srv.URL, "")

	_, err := c.Team(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
	assert.Equal(t, "/team/json/all_members.json", fe.Endpoint)

	_, _ = c.Team(context.Background())
	assert.Equal(t, int32(2), hits.Load())
}

func TestSchemaRejectsWrongShape(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/projectsData.json": `{"title":"not an array"}`,
	})
	c := newTestClient(t, srv.URL, "")

	_, err := c.Projects(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestGSoCYearAcceptsNumberOrString(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/gsoc/gsoc.json": `{"years":[{"year":2024,"selections":[{"name":"A"},{"name":"B"}]},{"year":"2023","selections":[{"name":"C"}]}]}`,
	})
	c := newTestClient(t, srv.URL, "")

	doc, err := c.GSoC(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Years, 2)
	assert.Equal(t, Year("2024"), doc.Years[0].Year)
	assert.Equal(t, Year("2023"), doc.Years[1].Year)
	assert.Equal(t, 3, doc.TotalSelections())
}

func TestOverlayMergePatch(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/compete/compete.json": `{"competitions":[{"name":"ICPC","typicalMonth":"Nov","category":"CP"}],"note":"drop me"}`,
	})
	dir := t.TempDir()
	patch := `{"competitions":[{"name":"Inter IIT","typicalMonth":"Dec","category":"Tech Meet"}],"note":null}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "competitions.patch.json"), []byte(patch), 0o644))

	c := newTestClient(t, srv.URL, dir)
	doc, err := c.Competitions(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Competitions, 1)
	assert.Equal(t, "Inter IIT", doc.Competitions[0].Name)

	raw, err := c.Raw(context.Background(), DocCompetitions)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "drop me")
}

func TestRawUnknownDoc(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", "")
	_, err := c.Raw(context.Background(), Doc("nope"))
	assert.ErrorIs(t, err, ErrUnknownDoc)
}

func TestPreloadReportsEveryDocument(t *testing.T) {
	srv, _ := newTestServer(t, map[string]string{
		"/events/events.json": eventsJSON,
		"/projectsData.json":  `[{"title":"Website","description":"The club website"}]`,
	})
	c := newTestClient(t, srv.URL, "")

	var (
		mu       sync.Mutex
		progress []int
		names    []string
	)
	results := c.Preload(context.Background(), func(pct int, name string) {
		mu.Lock()
		defer mu.Unlock()
		progress = append(progress, pct)
		names = append(names, name)
	})

	require.Len(t, results, len(AllDocs))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	assert.Equal(t, 4, failed)
	assert.Len(t, names, len(AllDocs))
	assert.Equal(t, 100, progress[len(progress)-1])
	assert.ElementsMatch(t, []string{"Events", "Team", "GSoC", "Competitions", "Projects", "Resources"}, names)
}

func TestGetAssetURL(t *testing.T) {
	c := newTestClient(t, "https://example.org/data/", "")
	tests := []struct {
		path, prefix, want string
	}{
		{"", "", ""},
		{"https://cdn.example.org/x.png", "/team", "https://cdn.example.org/x.png"},
		{"/team/images/a.jpg", "/team", "https://example.org/data/team/images/a.jpg"},
		{"images/a.jpg", "/team", "https://example.org/data/team/images/a.jpg"},
		{"images/a.jpg", "", "https://example.org/data/images/a.jpg"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, c.GetAssetURL(tc.path, tc.prefix), "path=%q prefix=%q", tc.path, tc.prefix)
	}
}

func TestMemberHasRole(t *testing.T) {
	m := Member{Name: "X", Position: "Co-Coordinator"}
	assert.True(t, m.HasRole("co-coordinator"))
	assert.True(t, m.HasRole("Coordinator"))
	assert.False(t, m.HasRole("Mentor"))
	assert.False(t, Member{Name: "Y"}.HasRole("Mentor"))
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	gate := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(eventsJSON))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL, "")

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Raw(first, DocEvents)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, err := c.Events(context.Background())
		second <- err
	}()

	cancel()
	err := <-firstErr
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)

	close(gate)
	require.NoError(t, <-second)
	assert.Equal(t, int32(1), hits.Load())
}
