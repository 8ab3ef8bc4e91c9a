// Package di provides dependency injection container
package di

import (
	"fmt"
	"log/slog"
	"os"

	redis "github.com/redis/go-redis/v9"

	"github.com/hultner-technologies/recordkit/pkg/api"
	"github.com/hultner-technologies/recordkit/pkg/codec"
	"github.com/hultner-technologies/recordkit/pkg/config"
	"github.com/hultner-technologies/recordkit/pkg/schema"
	"github.com/hultner-technologies/recordkit/pkg/store"
)

// BackendOpener opens the storage backend described by a configuration
type BackendOpener func(cfg *config.Config) (store.Backend, error)

// Container holds all the dependencies for the application
type Container struct {
	cfg      *config.Config
	registry *schema.Registry
	logger   *slog.Logger
	opener   BackendOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
		opener: OpenBackend,
	}
}

// Config returns the active configuration
func (c *Container) Config() *config.Config {
	return c.cfg
}

// SetConfig replaces the configuration and resets everything derived from it
func (c *Container) SetConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := config.ParseLevel(cfg.Logging.Level)

	c.cfg = cfg
	c.registry = nil
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// Logger returns the application logger
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// SetBackendOpener allows overriding how backends are opened (for testing)
func (c *Container) SetBackendOpener(opener BackendOpener) {
	c.opener = opener
}

// Registry returns the shape registry, loading the configured shapes file
// on first use
func (c *Container) Registry() (*schema.Registry, error) {
	if c.registry != nil {
		return c.registry, nil
	}

	reg := schema.NewRegistry()
	if c.cfg.ShapesFile != "" {
		if err := reg.LoadFile(c.cfg.ShapesFile); err != nil {
			return nil, err
		}
		c.logger.Debug("loaded shapes", "file", c.cfg.ShapesFile, "shapes", reg.Names())
	}
	c.registry = reg
	return reg, nil
}

// Codec returns a codec for the configured output format
func (c *Container) Codec() (*codec.RecordCodec, error) {
	format, err := codec.FormatByName(c.cfg.Format)
	if err != nil {
		return nil, err
	}
	return codec.NewRecordCodec(codec.WithFormat(format)), nil
}

// OpenStore opens the configured backend. The caller must close the store.
func (c *Container) OpenStore() (*store.RecordStore, error) {
	backend, err := c.opener(c.cfg)
	if err != nil {
		return nil, err
	}
	cd, err := c.Codec()
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return store.New(backend, cd), nil
}

// NewServer builds the HTTP API over the registry and records
func (c *Container) NewServer(records api.Records) (*api.Server, error) {
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	serverConfig := api.ServerConfig{
		Addr:   c.cfg.Addr(),
		APIKey: c.cfg.Security.APIKey,
	}
	return api.NewServer(reg, records, serverConfig, api.NewMetrics(), c.logger), nil
}

// OpenBackend opens a pebble database or connects to redis
func OpenBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return store.NewRedisBackendWithOptions(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		}, store.WithKeyPrefix(cfg.Redis.KeyPrefix))
	case config.BackendPebble, "":
		if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		return store.NewPebbleBackend(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
