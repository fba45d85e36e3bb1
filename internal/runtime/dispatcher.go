package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCommandTimeout bounds a single dispatch.
const DefaultCommandTimeout = 10 * time.Second

// timeoutGrace is how long a command may still answer after its context is
// done. Data commands see the same ctx and fall back promptly.
const timeoutGrace = 500 * time.Millisecond

// Routes maps cd targets to site routes.
var Routes = map[string]string{
	"home":       "/home",
	"~":          "/home",
	"/":          "/home",
	"gsoc":       "/gsoc",
	"team":       "/teams",
	"teams":      "/teams",
	"contact":    "/contact",
	"compete":    "/compete",
	"hackathons": "/compete",
	"events":     "/events",
	"resources":  "/resources",
}

var (
	// CommandsTotal counts dispatches by command and result type.
	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kpterm",
		Name:      "terminal_commands_total",
		Help:      "Dispatched terminal commands, labeled by command and result type.",
	}, []string{"command", "type"})

	DispatchSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kpterm",
		Name:      "terminal_dispatch_seconds",
		Help:      "Histogram of dispatch durations.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Dispatcher turns an input line into exactly one CommandResult.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTimeout overrides DefaultCommandTimeout. Non-positive disables it.
func WithTimeout(d time.Duration) DispatcherOption {
	return func(ds *Dispatcher) { ds.timeout = d }
}

func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{registry: reg, timeout: DefaultCommandTimeout}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Registry returns the registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch resolves input in precedence order: blank, echo, cowsay, sudo,
// rm -rf, cd, history, registry, unknown. It never returns an error; every
// fault is folded into an error result.
func (d *Dispatcher) Dispatch(ctx context.Context, input string, history []string) CommandResult {
	start := time.Now()
	label, res := d.dispatch(ctx, input, history)
	DispatchSeconds.Observe(time.Since(start).Seconds())
	if label != "" {
		CommandsTotal.WithLabelValues(label, string(res.Type)).Inc()
	}
	slog.Debug("runtime: dispatch", "command", label, "type", res.Type, "kind", res.Kind)
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, input string, history []string) (string, CommandResult) {
	line := strings.TrimSpace(input)
	if line == "" {
		return "", Info("")
	}
	token, args := splitCommand(line)
	cmd := strings.ToLower(token)

	switch {
	case cmd == "echo":
		return cmd, Info(args)
	case cmd == "cowsay":
		text := args
		if text == "" {
			text = DefaultCowText
		}
		return cmd, Info(Cow(text))
	case cmd == "sudo":
		return cmd, Failure(KindPrivilegeDenied, sudoDenied)
	case strings.Contains(line, "rm") && strings.Contains(line, "-rf"):
		return "rm", Failure(KindPrivilegeDenied, rmDenied)
	case cmd == "cd":
		return cmd, changeDirectory(args)
	case cmd == "history":
		return cmd, Info(formatHistory(history))
	}

	spec, ok := d.registry.Lookup(cmd)
	if !ok {
		return "unknown", Failure(KindUnknownCommand,
			fmt.Sprintf("command not found: %s\nType 'help' for available commands.", cmd))
	}
	return cmd, d.execute(ctx, spec, args, history)
}

// splitCommand separates the leading token from the trimmed remainder.
func splitCommand(line string) (string, string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

func changeDirectory(args string) CommandResult {
	target := args
	if target != "/" {
		target = strings.TrimSuffix(target, "/")
	}
	if route, ok := Routes[strings.ToLower(target)]; ok {
		return Navigate(route, fmt.Sprintf("Navigating to %s...", target))
	}
	return Failure(KindNoSuchDirectory, "cd: no such directory: "+args)
}

type outcome struct {
	res CommandResult
	err error
}

// execute runs spec under the dispatch timeout, recovering panics.
func (d *Dispatcher) execute(ctx context.Context, spec CommandSpec, args string, history []string) CommandResult {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	snapshot := append([]string(nil), history...)

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("runtime: command panicked", "command", spec.Name, "panic", r)
				done <- outcome{err: fmt.Errorf("%v", r)}
			}
		}()
		res, err := spec.Execute(ctx, args, snapshot)
		done <- outcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		return settle(o)
	case <-ctx.Done():
	}

	grace := time.NewTimer(timeoutGrace)
	defer grace.Stop()
	select {
	case o := <-done:
		return settle(o)
	case <-grace.C:
	}
	slog.Warn("runtime: command abandoned", "command", spec.Name, "err", ctx.Err())
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Failure(KindDispatchTimedOut, "Error: command timed out")
	}
	return Failure(KindExecutionFault, "Error: "+ctx.Err().Error())
}

func settle(o outcome) CommandResult {
	if o.err != nil {
		return faultResult(o.err)
	}
	if !o.res.Type.Valid() {
		return Failure(KindExecutionFault, fmt.Sprintf("Error: invalid result type %q", o.res.Type))
	}
	return o.res
}

func faultResult(err error) CommandResult {
	return Failure(KindExecutionFault, "Error: "+err.Error())
}
