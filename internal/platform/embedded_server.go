package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

const natsReadyTimeout = 5 * time.Second

// EmbeddedServerConfig holds options for running the embedded server.
type EmbeddedServerConfig struct {
	InProcess       bool
	EnableLogging   bool
	JetStream       bool
	JetStreamDomain string
	LeafNodeURL     string // empty disables leaf node
	LeafNodeCreds   string // optional, only used if LeafNodeURL is set
	StoreDir        string // optional, for JetStream file storage
}

func (cfg EmbeddedServerConfig) serverOptions() (*server.Options, error) {
	opts := &server.Options{
		ServerName:      "kpterm",
		DontListen:      cfg.InProcess,
		JetStream:       cfg.JetStream,
		JetStreamDomain: cfg.JetStreamDomain,
		StoreDir:        cfg.StoreDir,
	}
	if cfg.LeafNodeURL == "" {
		return opts, nil
	}
	u, err := url.Parse(cfg.LeafNodeURL)
	if err != nil {
		return nil, fmt.Errorf("leaf node url: %w", err)
	}
	opts.LeafNode.Remotes = []*server.RemoteLeafOpts{{
		URLs:        []*url.URL{u},
		Credentials: cfg.LeafNodeCreds,
	}}
	return opts, nil
}

// RunEmbeddedServer starts the broker and connects a client to it. The
// returned channel reports ctx's error once ctx is done; shutting the server
// down is left to the caller.
func RunEmbeddedServer(ctx context.Context, cfg EmbeddedServerConfig) (*nats.Conn, *server.Server, <-chan error, error) {
	opts, err := cfg.serverOptions()
	if err != nil {
		return nil, nil, nil, err
	}
	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("nats server: %w", err)
	}
	if cfg.EnableLogging {
		ns.SetLogger(NewNATSServerLogger(slog.Default()), false, false)
	}
	go ns.Start()
	if !ns.ReadyForConnections(natsReadyTimeout) {
		ns.Shutdown()
		return nil, nil, nil, fmt.Errorf("nats server not ready after %s", natsReadyTimeout)
	}

	connOpts := []nats.Option{nats.Name("kpterm")}
	if cfg.InProcess {
		connOpts = append(connOpts, nats.InProcessServer(ns))
	}
	nc, err := nats.Connect(ns.ClientURL(), connOpts...)
	if err != nil {
		ns.Shutdown()
		return nil, nil, nil, fmt.Errorf("nats connect: %w", err)
	}
	slog.Info("nats: embedded server ready", "in_process", cfg.InProcess, "jetstream", cfg.JetStream, "leaf", cfg.LeafNodeURL != "")

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		errCh <- ctx.Err()
	}()
	return nc, ns, errCh, nil
}
