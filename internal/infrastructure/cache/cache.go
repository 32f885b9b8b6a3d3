// Package cache provides the optional result cache used by the server
// wrapper.  The naming pipeline itself is pure and never reads the cache;
// only the HTTP surface consults it, keyed by the normalized SMILES input.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
	"github.com/benzenoid/nomenclator/pkg/types/nomenclature"
)

// ErrMiss is returned by Get when no entry exists for the key.
var ErrMiss = errors.New(errors.CodeNotFound, "cache miss")

// ResultCache stores finished naming results.  Implementations must be safe
// for concurrent use.
type ResultCache interface {
	Get(ctx context.Context, smiles string) (*nomenclature.NamingResult, error)
	Set(ctx context.Context, smiles string, result *nomenclature.NamingResult) error
}

// Config carries cache construction parameters.
type Config struct {
	// Enabled switches the redis cache on; when false a no-op cache is used.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Addr is the redis host:port.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// TTL is the entry lifetime; naming is deterministic so entries never go
	// stale, the TTL only bounds memory.  Defaults to 24h when zero.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// KeyPrefix namespaces entries; defaults to "nomen:".
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

type redisCache struct {
	client *redis.Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

// New constructs a ResultCache according to cfg.  With cfg.Enabled false a
// no-op cache is returned and redis is never dialed.
func New(cfg Config, logger logging.Logger) ResultCache {
	if !cfg.Enabled {
		return nopCache{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "nomen:"
	}
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr}),
		logger: logger.Named("cache"),
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
	}
}

// key normalizes the SMILES so that trivially equivalent inputs (surrounding
// whitespace) share an entry.  SMILES is case-significant, so no folding.
func (c *redisCache) key(smiles string) string {
	return c.prefix + strings.TrimSpace(smiles)
}

func (c *redisCache) Get(ctx context.Context, smiles string) (*nomenclature.NamingResult, error) {
	raw, err := c.client.Get(ctx, c.key(smiles)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheUnavailable, "cache get failed")
	}
	var result nomenclature.NamingResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		c.logger.Warn("corrupt cache entry", logging.String("smiles", smiles), logging.Err(err))
		return nil, ErrMiss
	}
	return &result, nil
}

func (c *redisCache) Set(ctx context.Context, smiles string, result *nomenclature.NamingResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "cache marshal failed")
	}
	if err := c.client.Set(ctx, c.key(smiles), raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheUnavailable, "cache set failed")
	}
	return nil
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*nomenclature.NamingResult, error) {
	return nil, ErrMiss
}

func (nopCache) Set(context.Context, string, *nomenclature.NamingResult) error {
	return nil
}

// NewNop returns a cache that never stores anything.
func NewNop() ResultCache { return nopCache{} }
