package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lbstore/storefront-backend/pkg/redis"
)

const snapshotVersion = 2

// Snapshot is the durable slot for a session.
type Snapshot struct {
	Version    int               `json:"v"`
	Items      map[uint]LineItem `json:"items"`
	Selected   map[uint]int      `json:"selected,omitempty"`
	Contact    string            `json:"contact,omitempty"`
	CouponCode string            `json:"coupon_code,omitempty"`
}

// Persister loads and saves session snapshots. Load of an unknown session
// returns an empty snapshot and no error.
type Persister interface {
	Load(ctx context.Context, sessionID string) (Snapshot, error)
	Save(ctx context.Context, sessionID string, snap Snapshot) error
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartKey(sessionID string) string
}

// RedisPersister keeps one JSON document per session.
type RedisPersister struct {
	store kvStore
	ttl   time.Duration
}

// NewRedisPersister stores snapshots in redis, refreshing ttl on every save.
func NewRedisPersister(store kvStore, ttl time.Duration) *RedisPersister {
	return &RedisPersister{store: store, ttl: ttl}
}

func (p *RedisPersister) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	raw, err := p.store.Get(ctx, p.store.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("load cart snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return snap, nil
}

func (p *RedisPersister) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := p.store.Set(ctx, p.store.CartKey(sessionID), payload, p.ttl); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

// MemoryPersister keeps snapshots in process memory.
type MemoryPersister struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{slots: map[string][]byte{}}
}

func (p *MemoryPersister) Load(_ context.Context, sessionID string) (Snapshot, error) {
	p.mu.Lock()
	raw, ok := p.slots[sessionID]
	p.mu.Unlock()
	if !ok {
		return Snapshot{}, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return snap, nil
}

func (p *MemoryPersister) Save(_ context.Context, sessionID string, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	p.mu.Lock()
	p.slots[sessionID] = raw
	p.mu.Unlock()
	return nil
}
