package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kpterm/internal/content"
	"kpterm/internal/messages"
	"kpterm/internal/runtime"
	"kpterm/internal/session"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Provision creates the TERMINAL and EVENT streams and the sessions bucket.
func Provision(ctx context.Context, nc *nats.Conn, storage jetstream.StorageType) (jetstream.JetStream, jetstream.KeyValue, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, nil, fmt.Errorf("jetstream: %w", err)
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      messages.TerminalStream,
		Subjects:  []string{messages.TerminalSubjectsAll},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   storage,
		MaxAge:    time.Hour,
	}); err != nil {
		return nil, nil, fmt.Errorf("stream %s: %w", messages.TerminalStream, err)
	}
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     messages.EventStream,
		Subjects: []string{"event.>"},
		Storage:  storage,
		MaxAge:   24 * time.Hour,
	}); err != nil {
		return nil, nil, fmt.Errorf("stream %s: %w", messages.EventStream, err)
	}
	slog.Info("streams ready", "command", messages.TerminalStream, "event", messages.EventStream)

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  session.BucketName,
		History: 5,
		Storage: storage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("kv %s: %w", session.BucketName, err)
	}
	slog.Info("kv bucket ready", "bucket", session.BucketName)
	return js, kv, nil
}

// NewTerminalDispatcher builds the content client, the command registry
// and the dispatcher over them.
func NewTerminalDispatcher(cfg TerminalConfig) (*runtime.Dispatcher, *content.Client, error) {
	cc, err := content.New(cfg.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("content client: %w", err)
	}
	reg, err := runtime.NewDefaultRegistry(runtime.Deps{Content: cc})
	if err != nil {
		return nil, nil, fmt.Errorf("registry: %w", err)
	}
	var opts []runtime.DispatcherOption
	if cfg.CommandTimeout > 0 {
		opts = append(opts, runtime.WithTimeout(cfg.CommandTimeout))
	}
	return runtime.NewDispatcher(reg, opts...), cc, nil
}

// Run starts the terminal engine and blocks until ctx is done.
func Run(ctx context.Context, js jetstream.JetStream, kv jetstream.KeyValue, cfg *AppConfig) error {
	d, cc, err := NewTerminalDispatcher(*cfg.TerminalCfg)
	if err != nil {
		return err
	}

	te := NewTerminalEngine(js, session.NewKVStore(kv), d, nil)
	if err := te.Start(ctx); err != nil {
		return fmt.Errorf("terminal engine: %w", err)
	}
	slog.Info("TerminalEngine started", "commands", d.Registry().Len(), "content", cc.BaseURL())

	if cfg.Flags.Preload {
		go func() {
			results := cc.Preload(ctx, func(pct int, name string) {
				slog.Info("content: preload", "percent", pct, "doc", name)
			})
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			slog.Info("content: preload done", "docs", len(results), "failed", failed)
		}()
	}

	<-ctx.Done()
	slog.Info("Run: shutdown requested")
	te.Wait()
	return nil
}
