package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kpterm/internal/messages"
	"kpterm/internal/runtime"
	"kpterm/internal/session"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	terminalConsumer = "TERMINAL_ENGINE"
	defaultAckWait   = 30 * time.Second
	maxAckPending    = 256
)

var defaultStoreRetry = []time.Duration{100 * time.Millisecond, 500 * time.Millisecond, 2 * time.Second}

// EventPublisher is the part of messages.Publisher the engine needs.
type EventPublisher interface {
	PublishEvent(ctx context.Context, evt messages.Event) error
}

// TerminalEngine interprets terminal.session.*.{command,recall,reset}
// messages. Each session's messages are applied strictly in order on its
// own lane; the resulting state is saved before the event is published.
type TerminalEngine struct {
	js         jetstream.JetStream
	store      session.Store
	publisher  EventPublisher
	dispatcher *runtime.Dispatcher
	lanes      *Lanes
	ackWait    time.Duration
	storeRetry []time.Duration
}

// EngineOption customises a TerminalEngine.
type EngineOption func(*TerminalEngine)

// WithAckWait sets the consumer AckWait. Queued and running messages are
// kept alive at a third of it.
func WithAckWait(d time.Duration) EngineOption {
	return func(te *TerminalEngine) { te.ackWait = d }
}

// WithStoreRetry sets the waits between in-lane retries of a failed
// session load or save.
func WithStoreRetry(waits ...time.Duration) EngineOption {
	return func(te *TerminalEngine) { te.storeRetry = waits }
}

func NewTerminalEngine(js jetstream.JetStream, store session.Store, d *runtime.Dispatcher, pub EventPublisher, opts ...EngineOption) *TerminalEngine {
	if pub == nil {
		pub = messages.NewPublisher(js)
	}
	te := &TerminalEngine{
		js:         js,
		store:      store,
		publisher:  pub,
		dispatcher: d,
		lanes:      NewLanes(),
		ackWait:    defaultAckWait,
		storeRetry: defaultStoreRetry,
	}
	for _, o := range opts {
		o(te)
	}
	return te
}

// Start creates the durable consumer on TERMINAL and returns once
// consumption has begun. Consumption stops when ctx is done.
func (te *TerminalEngine) Start(ctx context.Context) error {
	cons, err := te.js.CreateOrUpdateConsumer(ctx, messages.TerminalStream, jetstream.ConsumerConfig{
		Durable:        terminalConsumer,
		AckPolicy:      jetstream.AckExplicitPolicy,
		FilterSubjects: []string{messages.TerminalSubjectsAll},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
		AckWait:        te.ackWait,
		MaxAckPending:  maxAckPending,
		MaxDeliver:     5,
	})
	if err != nil {
		return fmt.Errorf("create consumer: %w", err)
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		te.route(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	go func() {
		<-ctx.Done()
		cc.Stop()
	}()
	return nil
}

// route hands msg to its session lane. The message is kept in progress
// while it waits and runs so a long lane does not trigger redelivery.
func (te *TerminalEngine) route(ctx context.Context, msg jetstream.Msg) {
	sid, _, ok := messages.ParseTerminalSubject(msg.Subject())
	if !ok {
		slog.Warn("terminal: unexpected subject", "subject", msg.Subject())
		_ = msg.Term()
		return
	}
	stop := te.keepAlive(msg)
	te.lanes.Do(sid, func() {
		defer stop()
		cmd, err := messages.DecodeCommand(msg.Subject(), msg.Data())
		if err != nil {
			slog.Warn("terminal: bad cmd payload", "subject", msg.Subject(), "err", err)
			_ = msg.Term()
			return
		}
		if err := te.handleWithRetry(ctx, cmd); err != nil {
			slog.Error("terminal: handle", "sid", sid, "err", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
}

func (te *TerminalEngine) keepAlive(msg jetstream.Msg) (stop func()) {
	_ = msg.InProgress()
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(te.ackWait / 3)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := msg.InProgress(); err != nil {
					slog.Debug("terminal: in progress", "subject", msg.Subject(), "err", err)
				}
			}
		}
	}()
	return func() { close(done) }
}

// handleWithRetry retries store failures on the lane itself, so later
// messages of the session stay behind this one. A message that still fails
// is nakked and may then land after them.
func (te *TerminalEngine) handleWithRetry(ctx context.Context, cmd messages.Command) error {
	err := te.Handle(ctx, cmd)
	for _, wait := range te.storeRetry {
		if err == nil {
			return nil
		}
		slog.Warn("terminal: store failed, retrying", "subject", cmd.Subject(), "in", wait, "err", err)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
		err = te.Handle(ctx, cmd)
	}
	return err
}

// Handle applies one decoded command. Only store failures are returned;
// the caller should redeliver those. Publish failures are logged because
// the saved state already reflects the command.
func (te *TerminalEngine) Handle(ctx context.Context, cmd messages.Command) error {
	switch c := cmd.(type) {
	case *messages.TerminalCommandMessage:
		return te.handleCommand(ctx, c)
	case *messages.TerminalRecallCommand:
		return te.handleRecall(ctx, c)
	case *messages.TerminalResetCommand:
		return te.handleReset(ctx, c)
	default:
		slog.Warn("terminal: unsupported command", "type", fmt.Sprintf("%T", cmd))
		return nil
	}
}

func (te *TerminalEngine) handleCommand(ctx context.Context, c *messages.TerminalCommandMessage) error {
	st, err := te.store.Load(ctx, c.SessionID)
	if err != nil {
		return err
	}
	line, ok := st.Submit(c.Cmd)
	if !ok {
		return nil
	}
	res := te.dispatcher.Dispatch(ctx, line, st.History)
	eff := st.Apply(res)
	if err := te.store.Save(ctx, c.SessionID, st); err != nil {
		return err
	}
	slog.Info("terminal: dispatched", "sid", c.SessionID, "cmd", line, "type", res.Type, "correlation_id", c.CorrelationID)

	evt := messages.NewTerminalResultEvent(c.SessionID, line, res.Output, string(res.Type)).
		WithRoute(res.Route).
		WithEffect(string(eff)).
		WithSeq(st.Seq).
		WithCorrelation(c.CorrelationID)
	te.publish(ctx, evt)
	return nil
}

func (te *TerminalEngine) handleRecall(ctx context.Context, c *messages.TerminalRecallCommand) error {
	st, err := te.store.Load(ctx, c.SessionID)
	if err != nil {
		return err
	}
	var (
		value string
		ok    bool
	)
	if c.Direction == messages.RecallPrevious {
		value, ok = st.RecallPrevious()
	} else {
		value, ok = st.RecallNext()
	}
	if !ok {
		return nil
	}
	if err := te.store.Save(ctx, c.SessionID, st); err != nil {
		return err
	}
	evt := messages.NewTerminalRecallEvent(c.SessionID, value, st.Seq)
	evt.CorrelationID = c.CorrelationID
	te.publish(ctx, evt)
	return nil
}

func (te *TerminalEngine) handleReset(ctx context.Context, c *messages.TerminalResetCommand) error {
	st, err := te.store.Load(ctx, c.SessionID)
	if err != nil {
		return err
	}
	st.ResetOnClose()
	if err := te.store.Save(ctx, c.SessionID, st); err != nil {
		return err
	}
	evt := messages.NewTerminalResetEvent(c.SessionID, st.Seq)
	evt.CorrelationID = c.CorrelationID
	te.publish(ctx, evt)
	return nil
}

func (te *TerminalEngine) publish(ctx context.Context, evt messages.Event) {
	if err := te.publisher.PublishEvent(ctx, evt); err != nil {
		slog.Warn("terminal: publish event", "subject", evt.Subject(), "err", err)
	}
}

// Wait blocks until every queued message has been handled.
func (te *TerminalEngine) Wait() { te.lanes.Wait() }
