package chart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flanksource/commons/logger"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrCacheDisabled indicates caching is disabled
	ErrCacheDisabled = errors.New("chart cache is disabled")
	// ErrNotFound indicates the entry was not found in cache
	ErrNotFound = errors.New("chart cache entry not found")
)

// CacheConfig holds chart cache configuration
type CacheConfig struct {
	DBPath   string        `json:"path,omitempty" yaml:"path,omitempty"`
	TTL      time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Disabled bool          `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// CacheStats summarises the cache contents.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Bytes   int64 `json:"bytes"`
}

// Cache stores rendered chart images in SQLite, keyed by Spec.Key.
type Cache struct {
	db     *sql.DB
	config CacheConfig
	now    func() time.Time
}

// OpenCache opens or creates the cache database and drops expired entries.
func OpenCache(config CacheConfig) (*Cache, error) {
	if config.Disabled {
		return &Cache{config: config, now: time.Now}, nil
	}
	if config.DBPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		config.DBPath = filepath.Join(homeDir, ".cache", "informe-charts.db")
	}

	if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	c := &Cache{db: db, config: config, now: time.Now}
	if n, err := c.Prune(); err != nil {
		logger.Warnf("failed to prune chart cache: %v", err)
	} else if n > 0 {
		logger.Debugf("pruned %d expired charts from %s", n, config.DBPath)
	}
	return c, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && !c.config.Disabled && c.db != nil
}

// Close closes the database connection
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Get returns a cached image that has not expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrCacheDisabled
	}
	now := c.now().Unix()

	var data []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT image FROM chart_cache WHERE cache_key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, now,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, `UPDATE chart_cache SET accessed_at = ?, hits = hits + 1 WHERE cache_key = ?`, now, key); err != nil {
		logger.Warnf("failed to record chart cache hit for %s: %v", key, err)
	}
	return data, nil
}

// Set stores an image, replacing any previous entry for key.
func (c *Cache) Set(ctx context.Context, key, provider string, data []byte) error {
	if !c.Enabled() {
		return nil
	}
	now := c.now()
	var expiresAt sql.NullInt64
	if c.config.TTL > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(c.config.TTL).Unix(), Valid: true}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO chart_cache (cache_key, provider, image, created_at, accessed_at, expires_at, hits)
		VALUES (?, ?, ?, ?, ?, ?, 0)`,
		key, provider, data, now.Unix(), now.Unix(), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// Prune removes expired entries and returns how many were removed.
func (c *Cache) Prune() (int64, error) {
	if !c.Enabled() {
		return 0, ErrCacheDisabled
	}
	result, err := c.db.Exec(`DELETE FROM chart_cache WHERE expires_at IS NOT NULL AND expires_at <= ?`, c.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	return result.RowsAffected()
}

// Clear removes all cache entries
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return ErrCacheDisabled
	}
	if _, err := c.db.Exec(`DELETE FROM chart_cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func (c *Cache) Stats() (CacheStats, error) {
	if !c.Enabled() {
		return CacheStats{}, ErrCacheDisabled
	}
	var s CacheStats
	err := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(hits), 0), COALESCE(SUM(LENGTH(image)), 0) FROM chart_cache`).
		Scan(&s.Entries, &s.Hits, &s.Bytes)
	if err != nil {
		return CacheStats{}, fmt.Errorf("failed to get cache stats: %w", err)
	}
	return s, nil
}

// Cached serves charts from a Cache and renders misses with Provider.
type Cached struct {
	Provider Provider
	Cache    *Cache
	// Name is recorded with every stored image.
	Name string
}

func (c Cached) Render(ctx context.Context, spec Spec) ([]byte, error) {
	log := logger.GetLogger("chart")
	key := spec.Key()

	data, err := c.Cache.Get(ctx, key)
	switch {
	case err == nil:
		log.Debugf("chart cache hit %s", key[:12])
		return data, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCacheDisabled):
	default:
		log.Warnf("chart cache lookup failed: %v", err)
	}

	data, err = c.Provider.Render(ctx, spec)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, key, c.Name, data); err != nil {
		log.Warnf("failed to cache chart: %v", err)
	}
	return data, nil
}
