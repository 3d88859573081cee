package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/coursenotes"
)

// Compile-time interface verification.
var _ coursenotes.Cache = (*Cache)(nil)

// Cache implements coursenotes.Cache using SQLite. Entries survive process
// restarts; expired entries are evicted when read or purged.
type Cache struct {
	db *DB

	// Now returns the current time. Tests replace it to control expiry.
	Now func() time.Time
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db, Now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var expiresAt sql.NullInt64

	err := c.db.QueryRowContext(ctx, `
		SELECT value, expires_at
		FROM cache_entries
		WHERE key = ?
	`, key).Scan(&value, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if expired(expiresAt, c.Now()) {
		if _, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ? AND expires_at = ?`, key, expiresAt); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return value, true, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	now := c.Now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at
	`, key, value, toUnixMillis(expiresAt), now.UTC().Format(time.RFC3339))
	return err
}

func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	result, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := c.Get(ctx, key)
	return ok, err
}

func (c *Cache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	return err
}

// Purge removes every expired entry and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM cache_entries
		WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, c.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Len returns the number of stored entries, including expired entries
// that have not been evicted yet.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&n)
	return n, err
}

// Keys returns the keys of all live entries.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT key
		FROM cache_entries
		WHERE expires_at IS NULL OR expires_at > ?
		ORDER BY key
	`, c.Now().UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
