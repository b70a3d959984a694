// ABOUTME: Charm KV client wrapper used as the synced key/value backend
// ABOUTME: Explicitly opened per process; writes auto-sync when enabled

package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName is the application name for the Charm KV database.
	AppName = "clarity"
)

// Config holds charm connection settings.
type Config struct {
	// Host is the charm server hostname (default: charm.2389.dev)
	Host string

	// AutoSync enables automatic sync after every write operation
	AutoSync bool
}

// backend is the subset of charm/kv.KV the client relies on.
type backend interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
}

// Client wraps a KV backend with sync helpers.
type Client struct {
	db     backend
	config Config
	logger *zap.Logger
	closer func() error
	mu     sync.RWMutex
}

// Open opens the charm KV database for this application.
func Open(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set charm host before opening KV
	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{db: db, config: cfg, logger: logger}

	// Sync on startup to pull remote changes
	if cfg.AutoSync {
		if err := db.Sync(); err != nil {
			logger.Warn("charm startup sync failed", zap.Error(err))
		}
	}

	return c, nil
}

// Close releases the backend. charm/kv doesn't expose Close directly;
// the underlying BadgerDB is cleaned up on process exit.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closer != nil {
		err := c.closer()
		c.closer = nil
		return err
	}
	return nil
}

// Config returns the client's config.
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Sync performs a manual sync with the charm server.
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Sync()
}

// Get retrieves a value by key. A missing key yields nil, nil.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, err := c.db.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return value, err
}

// Set stores a value and syncs if enabled.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.db.Set(key, value); err != nil {
		return err
	}

	// Sync while still holding lock to avoid race condition
	c.autoSync()
	return nil
}

// Delete removes a key and syncs if enabled.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.db.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	c.autoSync()
	return nil
}

func (c *Client) autoSync() {
	if !c.config.AutoSync {
		return
	}
	if err := c.db.Sync(); err != nil {
		c.logger.Warn("charm sync after write failed", zap.Error(err))
	}
}

// Keys returns all keys (for debugging/admin).
func (c *Client) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db.Keys()
}

// Reset wipes all data from the KV store (use with caution!)
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Reset()
}
