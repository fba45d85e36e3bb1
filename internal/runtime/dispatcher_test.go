package runtime

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kpterm/internal/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContent serves fixed documents, or err for every call when set.
type fakeContent struct {
	err       error
	events    content.EventsDoc
	team      []content.Member
	gsoc      content.GSoCDoc
	compete   content.CompetitionsDoc
	projects  []content.Project
	resources content.ResourcesDoc
	raw       map[content.Doc][]byte
}

func (f *fakeContent) Events(context.Context) (content.EventsDoc, error) { return f.events, f.err }
func (f *fakeContent) Team(context.Context) ([]content.Member, error)    { return f.team, f.err }
func (f *fakeContent) GSoC(context.Context) (content.GSoCDoc, error)     { return f.gsoc, f.err }
func (f *fakeContent) Competitions(context.Context) (content.CompetitionsDoc, error) {
	return f.compete, f.err
}
func (f *fakeContent) Projects(context.Context) ([]content.Project, error) { return f.projects, f.err }
func (f *fakeContent) Resources(context.Context) (content.ResourcesDoc, error) {
	return f.resources, f.err
}
func (f *fakeContent) Raw(_ context.Context, d content.Doc) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.raw[d]
	if !ok {
		return nil, content.ErrFetch
	}
	return b, nil
}

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func newTestDispatcher(t *testing.T, src ContentSource, opts ...DispatcherOption) *Dispatcher {
	t.Helper()
	reg, err := NewDefaultRegistry(Deps{Content: src, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	return NewDispatcher(reg, opts...)
}

func TestDispatchControls(t *testing.T) {
	d := newTestDispatcher(t, &fakeContent{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		want  CommandResult
	}{
		{"echo", "echo hello world", Info("hello world")},
		{"echo keeps case", "ECHO Hello", Info("Hello")},
		{"echo empty", "echo", Info("")},
		{"sudo", "sudo rm -rf /", Failure(KindPrivilegeDenied, sudoDenied)},
		{"rm -rf anywhere", "please rm -rf now", Failure(KindPrivilegeDenied, rmDenied)},
		{"rm without flag", "rm file", Failure(KindUnknownCommand, "command not found: rm\nType 'help' for available commands.")},
		{"cd teams slash", "cd teams/", Navigate("/teams", "Navigating to teams...")},
		{"cd root", "cd /", Navigate("/home", "Navigating to /...")},
		{"cd home alias", "cd ~", Navigate("/home", "Navigating to ~...")},
		{"cd case-insensitive", "cd GSoC", Navigate("/gsoc", "Navigating to GSoC...")},
		{"cd hackathons", "cd hackathons", Navigate("/compete", "Navigating to hackathons...")},
		{"cd unknown", "cd nowhere", Failure(KindNoSuchDirectory, "cd: no such directory: nowhere")},
		{"unknown", "foobar", Failure(KindUnknownCommand, "command not found: foobar\nType 'help' for available commands.")},
		{"blank", "   ", Info("")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, d.Dispatch(ctx, tc.input, nil))
		})
	}
}

func TestEchoPrecedesRmEasterEgg(t *testing.T) {
	d := newTestDispatcher(t, &fakeContent{})
	res := d.Dispatch(context.Background(), "echo rm -rf", nil)
	assert.Equal(t, Info("rm -rf"), res)
}

func TestCowsayBorderWidth(t *testing.T) {
	d := newTestDispatcher(t, &fakeContent{})
	res := d.Dispatch(context.Background(), "cowsay hi", nil)
	require.Equal(t, TypeInfo, res.Type)
	lines := strings.Split(res.Output, "\n")
	assert.Equal(t, "  ____", lines[1])
	assert.Equal(t, " < hi >", lines[2])
	assert.Equal(t, "  ----", lines[3])

	def := d.Dispatch(context.Background(), "cowsay", nil)
	assert.Contains(t, def.Output, "< "+DefaultCowText+" >")
	assert.Contains(t, def.Output, strings.Repeat("_", len(DefaultCowText)+2))
}

func TestHistoryListing(t *testing.T) {
	d := newTestDispatcher(t, &fakeContent{})
	res := d.Dispatch(context.Background(), "history", []string{"help", "history"})
	assert.Equal(t, Info("  1  help\n  2  history"), res)

	empty := d.Dispatch(context.Background(), "history", nil)
	assert.Equal(t, "No commands in history yet.", empty.Output)
}

func TestStaticCommands(t *testing.T) {
	d := newTestDispatcher(t, &fakeContent{})
	ctx := context.Background()

	assert.Equal(t, Info("A curious visitor exploring Kamand Prompt"), d.Dispatch(ctx, "whoami", nil))
	assert.Equal(t, CommandResult{Output: ClearSentinel, Type: TypeClear}, d.Dispatch(ctx, "clear", nil))
	assert.Equal(t, CommandResult{Output: ExitSentinel, Type: TypeExit}, d.Dispatch(ctx, "EXIT", nil))
	assert.Equal(t, Info(fixedNow.Format(dateLayout)), d.Dispatch(ctx, "date", nil))
	assert.Equal(t, TypeSuccess, d.Dispatch(ctx, "matrix", nil).Type)
	assert.Equal(t, TypeSuccess, d.Dispatch(ctx, "join", nil).Type)
	assert.Contains(t, d.Dispatch(ctx, "about", nil).Output, "KAMAND PROMPT")
}

func TestHelpListsEveryCommand(t *testing.T) {
	d := newTestDispatcher(t, &fakeContent{})
	res := d.Dispatch(context.Background(), "help", nil)
	require.Equal(t, TypeSuccess, res.Type)

	for _, name := range d.Registry().Names() {
		assert.Contains(t, res.Output, "  "+name, "help must list %s", name)
	}
	for _, c := range Controls {
		assert.Contains(t, res.Output, c.Label)
	}
	assert.Contains(t, res.Output, "INFO COMMANDS")
	assert.Contains(t, res.Output, "NAVIGATION")
	assert.Contains(t, res.Output, "FUN COMMANDS")
	assert.True(t, strings.HasSuffix(res.Output, "Type any command and press Enter!\n"))
}

func TestExecuteErrorAndPanicBecomeErrorResults(t *testing.T) {
	reg, err := NewRegistry(
		CommandSpec{Name: "fail", Execute: func(context.Context, string, []string) (CommandResult, error) {
			return CommandResult{}, errors.New("boom")
		}},
		CommandSpec{Name: "explode", Execute: func(context.Context, string, []string) (CommandResult, error) {
			panic("kaboom")
		}},
		CommandSpec{Name: "weird", Execute: func(context.Context, string, []string) (CommandResult, error) {
			return CommandResult{Type: "sparkle"}, nil
		}},
	)
	require.NoError(t, err)
	d := NewDispatcher(reg)

	assert.Equal(t, Failure(KindExecutionFault, "Error: boom"), d.Dispatch(context.Background(), "fail", nil))
	assert.Equal(t, Failure(KindExecutionFault, "Error: kaboom"), d.Dispatch(context.Background(), "explode", nil))
	assert.Equal(t, TypeError, d.Dispatch(context.Background(), "weird", nil).Type)
}

func TestDispatchTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	reg, err := NewRegistry(CommandSpec{Name: "hang", Execute: func(context.Context, string, []string) (CommandResult, error) {
		<-release
		return Info("late"), nil
	}})
	require.NoError(t, err)
	d := NewDispatcher(reg, WithTimeout(20*time.Millisecond))

	res := d.Dispatch(context.Background(), "hang", nil)
	assert.Equal(t, Failure(KindDispatchTimedOut, "Error: command timed out"), res)
}

func TestArgsPassedTrimmedWithHistorySnapshot(t *testing.T) {
	var gotArgs string
	var gotHist []string
	reg, err := NewRegistry(CommandSpec{Name: "peek", Execute: func(_ context.Context, args string, h []string) (CommandResult, error) {
		gotArgs = args
		gotHist = h
		h[0] = "tampered"
		return Info("ok"), nil
	}})
	require.NoError(t, err)
	history := []string{"peek  Mixed Case  "}
	NewDispatcher(reg).Dispatch(context.Background(), "PEEK   Mixed Case  ", history)

	assert.Equal(t, "Mixed Case", gotArgs)
	assert.Equal(t, []string{"tampered"}, gotHist)
	assert.Equal(t, "peek  Mixed Case  ", history[0], "commands get a copy of history")
}

func TestTimedOutFetchFallsBack(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	cc, err := content.New(content.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	d := newTestDispatcher(t, cc, WithTimeout(100*time.Millisecond))

	for cmd, want := range map[string]string{
		"events": eventsFallback,
		"team":   teamFallback,
		"gsoc":   gsocFallback,
	} {
		assert.Equal(t, Info(want), d.Dispatch(context.Background(), cmd, nil), cmd)
	}
}

func TestEveryRegisteredCommandAnswers(t *testing.T) {
	sources := map[string]ContentSource{
		"content ok":   &fakeContent{raw: map[content.Doc][]byte{}},
		"content down": &fakeContent{err: errors.New("offline")},
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			d := newTestDispatcher(t, src)
			for _, cmd := range d.Registry().Names() {
				res := d.Dispatch(context.Background(), cmd, []string{cmd})
				assert.True(t, res.Type.Valid(), "%s: type %q", cmd, res.Type)
				if res.Type == TypeClear || res.Type == TypeExit {
					continue
				}
				assert.NotEmpty(t, strings.TrimSpace(res.Output), cmd)
			}
		})
	}
}

func TestReadOnlyCommandsAreIdempotent(t *testing.T) {
	d := newTestDispatcher(t, &fakeContent{
		team: []content.Member{{Name: "Asha", Position: "Coordinator"}},
	})
	for _, cmd := range []string{"help", "about", "events", "team", "gsoc", "ls", "whoami", "date", "skills", "cowsay hi", "cd gsoc"} {
		first := d.Dispatch(context.Background(), cmd, nil)
		second := d.Dispatch(context.Background(), cmd, nil)
		assert.Equal(t, first, second, cmd)
	}
}
