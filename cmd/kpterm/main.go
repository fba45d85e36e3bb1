package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"kpterm/internal/platform"
	"kpterm/internal/session"

	"github.com/nats-io/nats.go/jetstream"
)

func main() {
	platform.InitMetrics()

	appCfg, err := platform.LoadAppConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	platform.InitLogger(appCfg.Flags.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// --- Run embedded NATS server ---
	nc, ns, natErrCh, err := platform.RunEmbeddedServer(ctx, *appCfg.NatsCfg)
	if err != nil {
		slog.Error("Failed to start embedded server", "err", err)
		os.Exit(1)
	}
	defer ns.Shutdown()
	defer nc.Close()

	js, kv, err := platform.Provision(ctx, nc, jetstream.FileStorage)
	if err != nil {
		slog.Error("Failed to provision JetStream", "err", err)
		os.Exit(1)
	}

	var httpErrCh <-chan error
	if !appCfg.Flags.Headless {
		httpErrCh = platform.RunHTTPServer(ctx, js, session.NewKVStore(kv), *appCfg.HTTPSrvCfg)
	} else {
		// never sends
		httpErrCh = make(chan error)
	}

	go func() {
		select {
		case err := <-natErrCh:
			if ctx.Err() == nil {
				slog.Error("Embedded server error", "err", err)
			}
			cancel()
		case err := <-httpErrCh:
			if ctx.Err() == nil {
				slog.Error("HTTP server error", "err", err)
			}
			cancel()
		}
	}()

	if err := platform.Run(ctx, js, kv, appCfg); err != nil {
		slog.Error("Run failed", "err", err)
		os.Exit(1)
	}
}
