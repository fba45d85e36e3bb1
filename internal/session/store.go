package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go/jetstream"
)

// BucketName is the JetStream KV bucket holding sessions.
const BucketName = "sessions"

// Store persists sessions by id. Load returns a fresh session for unknown ids.
type Store interface {
	Load(ctx context.Context, sid string) (*State, error)
	Save(ctx context.Context, sid string, st *State) error
	Delete(ctx context.Context, sid string) error
}

// MemoryStore keeps sessions in process. Used by the local shell and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*State)}
}

func (m *MemoryStore) Load(_ context.Context, sid string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.sessions[sid]; ok {
		return st.Clone(), nil
	}
	return New(), nil
}

func (m *MemoryStore) Save(_ context.Context, sid string, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sid] = st.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sid)
	return nil
}

// KVStore stores sessions as JSON in a JetStream key-value bucket.
type KVStore struct {
	kv jetstream.KeyValue
}

func NewKVStore(kv jetstream.KeyValue) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Load(ctx context.Context, sid string) (*State, error) {
	entry, err := s.kv.Get(ctx, sid)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", sid, err)
	}
	return Load(entry.Value())
}

func (s *KVStore) Save(ctx context.Context, sid string, st *State) error {
	raw, err := st.Raw()
	if err != nil {
		return err
	}
	if _, err := s.kv.Put(ctx, sid, raw); err != nil {
		return fmt.Errorf("kv put %s: %w", sid, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, sid string) error {
	if err := s.kv.Delete(ctx, sid); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("kv delete %s: %w", sid, err)
	}
	return nil
}

// Watch streams every stored revision of sid until ctx is done. A deleted
// key is delivered as a fresh session. The current value, if any, arrives
// first.
func (s *KVStore) Watch(ctx context.Context, sid string) (<-chan *State, error) {
	w, err := s.kv.Watch(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("kv watch %s: %w", sid, err)
	}
	out := make(chan *State, 8)
	go func() {
		defer close(out)
		defer func() { _ = w.Stop() }()
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-w.Updates():
				if !ok {
					return
				}
				// nil marks the end of the initial values
				if entry == nil {
					continue
				}
				var st *State
				if entry.Operation() == jetstream.KeyValuePut {
					st, err = Load(entry.Value())
					if err != nil {
						slog.Warn("session: bad stored value", "sid", sid, "err", err)
						continue
					}
				} else {
					st = New()
				}
				select {
				case out <- st:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
