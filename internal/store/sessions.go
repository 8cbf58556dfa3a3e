package store

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/homebarber/internal/snapshot"
)

// Sessions hands out one Identity per device. The empty device id maps to
// the unscoped auth-storage key.
type Sessions struct {
	deps IdentityDeps
	opts Options

	mu       sync.Mutex
	byDevice map[string]*Identity
}

func NewSessions(deps IdentityDeps, opts Options) *Sessions {
	return &Sessions{
		deps:     deps,
		opts:     opts.normalize(),
		byDevice: make(map[string]*Identity),
	}
}

func (s *Sessions) For(deviceID string) *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byDevice[deviceID]
	if !ok {
		id = NewIdentity(s.deps, snapshot.ScopedKey(snapshot.KeyAuth, deviceID), s.opts)
		s.byDevice[deviceID] = id
	}
	return id
}

// Open returns the device's Identity, restoring its snapshot the first
// time it is used in this process.
func (s *Sessions) Open(ctx context.Context, deviceID string) (*Identity, error) {
	id := s.For(deviceID)

	id.mu.RLock()
	restored := id.restored
	id.mu.RUnlock()

	if !restored {
		if err := id.Restore(ctx); err != nil {
			return nil, err
		}
	}
	return id, nil
}
