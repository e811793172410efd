package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type mockStore struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *mockStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return "lb:session:access:" + accessID
}

func newTestManager(store *mockStore) *Manager {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Manager{store: store, keyer: store, ttl: time.Hour, now: func() time.Time { return fixed }}
}

func TestManagerRegisterAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	id := NewAccessID()
	if err := manager.Register(ctx, id); err != nil {
		t.Fatalf("register: %v", err)
	}
	key := "lb:session:access:" + id
	if store.data[key] != "2026-01-02T03:04:05Z" || store.ttls[key] != time.Hour {
		t.Fatalf("unexpected marker %q ttl %s", store.data[key], store.ttls[key])
	}

	ok, err := manager.HasSession(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, id); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, id)
	if err != nil || ok {
		t.Fatalf("expected revoked session, got ok=%v err=%v", ok, err)
	}
	if err := manager.Revoke(ctx, id); err != nil {
		t.Fatalf("second revoke should be a no-op: %v", err)
	}
}

func TestManagerRejectsBlankIDs(t *testing.T) {
	manager := newTestManager(newMockStore())
	ctx := context.Background()
	if err := manager.Register(ctx, " "); err == nil {
		t.Fatal("expected register error")
	}
	if _, err := manager.HasSession(ctx, ""); err == nil {
		t.Fatal("expected has-session error")
	}
	if err := manager.Revoke(ctx, ""); err == nil {
		t.Fatal("expected revoke error")
	}
}

func TestManagerPropagatesStoreErrors(t *testing.T) {
	store := newMockStore()
	store.setErr = errors.New("redis down")
	if err := newTestManager(store).Register(context.Background(), NewAccessID()); err == nil {
		t.Fatal("expected store error")
	}
}
