package platform

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"kpterm/internal/messages"
	"kpterm/internal/session"

	"github.com/nats-io/nats.go/jetstream"
	datastar "github.com/starfederation/datastar/sdk/go"
)

// UIStream is the SSE handler for /ui. It renders the stored transcript,
// re-renders it on every stored revision, and replays this session's events
// newer than the snapshot as browser side effects.
func UIStream(js jetstream.JetStream, store *session.KVStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionID(r)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		st, err := store.Load(ctx, sid)
		if err != nil {
			slog.Error("ui: load session", "sid", sid, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		snapshot := st.Seq

		sink := newLockedSink(datastar.NewSSE(w, r))
		if err := renderTranscript(sink, st); err != nil {
			slog.Warn("ui: initial render", "sid", sid, "err", err)
			return
		}

		updates, err := store.Watch(ctx, sid)
		if err != nil {
			slog.Error("ui: watch session", "sid", sid, "err", err)
			return
		}
		go func() {
			last := snapshot
			for st := range updates {
				if st.Seq == last {
					continue
				}
				last = st.Seq
				if err := renderTranscript(sink, st); err != nil {
					slog.Warn("ui: render transcript", "sid", sid, "err", err)
					cancel()
					return
				}
			}
		}()

		subjects := []string{
			messages.TerminalResultSubject(sid),
			messages.TerminalRecalledSubject(sid),
			messages.TerminalResetDoneSubject(sid),
		}
		renderers := ForSubjects(subjects)
		cons, err := js.CreateConsumer(ctx, messages.EventStream, jetstream.ConsumerConfig{
			AckPolicy:      jetstream.AckNonePolicy,
			FilterSubjects: subjects,
			DeliverPolicy:  jetstream.DeliverAllPolicy,
		})
		if err != nil {
			slog.Warn("ui: create consumer", "sid", sid, "err", err)
			<-ctx.Done()
			return
		}
		cc, err := cons.Consume(func(msg jetstream.Msg) {
			if seqOf(msg.Data()) <= snapshot {
				return
			}
			if err := Render(ctx, renderers, msg.Subject(), msg.Data(), sink); err != nil {
				slog.Warn("ui: render", "subject", msg.Subject(), "err", err)
			}
		})
		if err != nil {
			slog.Warn("ui: consume", "sid", sid, "err", err)
			<-ctx.Done()
			return
		}
		defer cc.Stop()

		<-ctx.Done()
	}
}

// seqOf reads the session sequence an event was emitted at.
func seqOf(data []byte) uint64 {
	var v struct {
		Seq uint64 `json:"seq"`
	}
	_ = json.Unmarshal(data, &v)
	return v.Seq
}
