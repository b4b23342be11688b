package tagcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"exifglass/internal/config"
	"exifglass/internal/exiftool"
)

// Cache stores parsed reads backed by SQLite. It satisfies exiftool.Cache.
type Cache struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ exiftool.Cache = (*Cache)(nil)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Stats summarizes cache contents.
type Stats struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Tags    int    `json:"tags"`
}

// Open initializes or connects to the cache database at cfg.Cache.Path.
func Open(cfg *config.Config) (*Cache, error) {
	if cfg == nil || strings.TrimSpace(cfg.Cache.Path) == "" {
		return nil, errors.New("cache path is not configured")
	}
	return OpenPath(cfg.Cache.Path)
}

// OpenPath initializes or connects to the cache database at path.
func OpenPath(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Batch reads share one cache; a single connection keeps writers serialized.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path, now: time.Now}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the tags stored under key. A hit refreshes the entry's
// access time so Prune keeps it.
func (c *Cache) Lookup(ctx context.Context, key string) ([]exiftool.Tag, bool, error) {
	ctx = ensureContext(ctx)
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT tag_count FROM reads WHERE cache_key = ?`, key).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup cache entry: %w", err)
	}

	tags, err := c.loadTags(ctx, key, count)
	if err != nil {
		return nil, false, err
	}
	if len(tags) != count {
		// Damaged entry; the next Store replaces it.
		return nil, false, nil
	}

	if err := c.execWithRetry(ctx, `UPDATE reads SET accessed_at = ? WHERE cache_key = ?`, c.now().Unix(), key); err != nil {
		return nil, false, fmt.Errorf("touch cache entry: %w", err)
	}
	return tags, true, nil
}

func (c *Cache) loadTags(ctx context.Context, key string, count int) ([]exiftool.Tag, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT idx, tag_id, tag_group, tag_name, tag_value FROM tags WHERE cache_key = ? ORDER BY idx`, key)
	if err != nil {
		return nil, fmt.Errorf("load cached tags: %w", err)
	}
	defer rows.Close()

	tags := make([]exiftool.Tag, 0, count)
	for rows.Next() {
		var tag exiftool.Tag
		if err := rows.Scan(&tag.Index, &tag.ID, &tag.Group, &tag.Name, &tag.Value); err != nil {
			return nil, fmt.Errorf("scan cached tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Store replaces the entry for key with tags.
func (c *Cache) Store(ctx context.Context, key string, tags []exiftool.Tag) error {
	ctx = ensureContext(ctx)
	now := c.now().Unix()
	return retryOnBusy(ctx, func() error {
		tx, err := c.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin cache tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM reads WHERE cache_key = ?`, key); err != nil {
			return fmt.Errorf("replace cache entry: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reads (cache_key, tag_count, created_at, accessed_at) VALUES (?, ?, ?, ?)`,
			key, len(tags), now, now,
		); err != nil {
			return fmt.Errorf("insert cache entry: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO tags (cache_key, idx, tag_id, tag_group, tag_name, tag_value) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare tag insert: %w", err)
		}
		defer stmt.Close()
		for i, tag := range tags {
			idx := tag.Index
			if idx == 0 {
				idx = i + 1
			}
			if _, err := stmt.ExecContext(ctx, key, idx, tag.ID, tag.Group, tag.Name, tag.Value); err != nil {
				return fmt.Errorf("insert cached tag: %w", err)
			}
		}
		return tx.Commit()
	})
}

// Prune removes entries not accessed within maxAge and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-maxAge).Unix()
	return c.deleteWhere(ctx, `DELETE FROM reads WHERE accessed_at < ?`, cutoff)
}

// Clear removes every entry.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	return c.deleteWhere(ctx, `DELETE FROM reads`)
}

// Stats reports the number of cached reads and tags.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{Path: c.path}
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(tag_count), 0) FROM reads`,
	).Scan(&stats.Entries, &stats.Tags)
	if err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

func (c *Cache) deleteWhere(ctx context.Context, query string, args ...any) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := c.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("delete cache entries: %w", err)
	}
	return removed, nil
}

func (c *Cache) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := c.db.ExecContext(ctx, query, args...)
		return err
	})
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
