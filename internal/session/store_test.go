package session

import (
	"context"
	"testing"
	"time"

	"kpterm/internal/runtime"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) jetstream.KeyValue {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		ServerName: "session-test",
		DontListen: true,
		JetStream:  true,
		StoreDir:   t.TempDir(),
	})
	require.NoError(t, err)
	go ns.Start()
	require.True(t, ns.ReadyForConnections(5*time.Second), "nats not ready")
	t.Cleanup(ns.Shutdown)

	nc, err := nats.Connect(ns.ClientURL(), nats.InProcessServer(ns))
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	js, err := jetstream.New(nc)
	require.NoError(t, err)
	kv, err := js.CreateOrUpdateKeyValue(context.Background(), jetstream.KeyValueConfig{Bucket: BucketName})
	require.NoError(t, err)
	return kv
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	st, err := s.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Len(t, st.Lines, 1, "unknown ids load a fresh session")

	st.Submit("help")
	st.Apply(runtime.Success("ok"))
	require.NoError(t, s.Save(ctx, "sid1", st))

	got, err := s.Load(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, st.History, got.History)
	assert.Equal(t, st.Lines, got.Lines)
	assert.Equal(t, st.Seq, got.Seq)

	got.Submit("mutated")
	again, err := s.Load(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, []string{"help"}, again.History, "loaded state must not alias stored state")

	require.NoError(t, s.Delete(ctx, "sid1"))
	require.NoError(t, s.Delete(ctx, "sid1"))
	fresh, err := s.Load(ctx, "sid1")
	require.NoError(t, err)
	assert.Empty(t, fresh.History)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestKVStore(t *testing.T) {
	exerciseStore(t, NewKVStore(newTestKV(t)))
}

func TestKVStoreWatch(t *testing.T) {
	kv := newTestKV(t)
	s := NewKVStore(kv)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st := New()
	st.Submit("a")
	require.NoError(t, s.Save(ctx, "w", st))

	updates, err := s.Watch(ctx, "w")
	require.NoError(t, err)

	first := <-updates
	require.NotNil(t, first)
	assert.Equal(t, []string{"a"}, first.History)

	st.Submit("b")
	require.NoError(t, s.Save(ctx, "w", st))
	second := <-updates
	require.NotNil(t, second)
	assert.Equal(t, []string{"a", "b"}, second.History)
}
