// ABOUTME: Explicit store object owning the client and interaction stores
// ABOUTME: Opened once per process over a key/value backend and closed on shutdown
package store

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Persistent keys. Each holds a JSON array.
const (
	CustomClientsKey = "clarity/custom-clients"
	InteractionsKey  = "clarity/interactions"
)

// KV is the key/value backend the stores persist into.
// Get must return nil, nil for a missing key.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Options configures a Store.
type Options struct {
	Logger *zap.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store bundles the client and interaction stores over one backend.
type Store struct {
	Clients      *ClientStore
	Interactions *InteractionStore

	kv     KV
	logger *zap.Logger
	closed bool
}

// Open builds the stores over kv. The backend is closed by Close when it
// implements io.Closer.
func Open(kv KV, opts Options) (*Store, error) {
	if kv == nil {
		return nil, errors.New("store: nil backend")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	builtins, err := loadBuiltinClients()
	if err != nil {
		return nil, err
	}
	seeds, err := loadSeedInteractions()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger.Named("store")
	clients := newClientStore(kv, builtins, logger, opts.Now)
	return &Store{
		Clients:      clients,
		Interactions: newInteractionStore(kv, clients.IsBuiltin, seeds, logger, opts.Now),
		kv:           kv,
		logger:       logger,
	}, nil
}

// Close tears down the backend.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close backend: %w", err)
		}
	}
	return nil
}

// RemoveClient deletes a custom client together with its interactions.
// Built-in or unknown ids, or a closed store, delete nothing.
func (s *Store) RemoveClient(id string) (removed bool, interactionsRemoved int) {
	if s.closed {
		return false, 0
	}
	if !s.Clients.Remove(id) {
		return false, 0
	}
	n := s.Interactions.RemoveForClient(id)
	s.logger.Debug("client removed", zap.String("id", id), zap.Int("interactions", n))
	return true, n
}
