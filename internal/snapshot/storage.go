// Package snapshot persists whole-store snapshots in a durable key-value
// namespace. Each store owns exactly one key and always writes its full
// state, so no merge or locking happens at this layer.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	KeyAuth         = "auth-storage"
	KeyAppointments = "appointments-storage"
)

type Storage interface {
	// Load decodes the snapshot under key into state. ok is false when no
	// snapshot exists.
	Load(ctx context.Context, key string, state any) (ok bool, err error)
	Save(ctx context.Context, key string, state any) error
	Delete(ctx context.Context, key string) error
}

// envelope is the stored record: the state plus a schema version.
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

const currentVersion = 0

func encode(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot state: %w", err)
	}
	return json.Marshal(envelope{State: raw, Version: currentVersion})
}

func decode(data []byte, state any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode snapshot envelope: %w", err)
	}
	if env.Version != currentVersion {
		return fmt.Errorf("unsupported snapshot version %d", env.Version)
	}
	if err := json.Unmarshal(env.State, state); err != nil {
		return fmt.Errorf("decode snapshot state: %w", err)
	}
	return nil
}

// ScopedKey derives a per-device key inside a namespace.
func ScopedKey(namespace, scope string) string {
	if scope == "" {
		return namespace
	}
	return namespace + ":" + scope
}
