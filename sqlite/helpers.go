package sqlite

import (
	"database/sql"
	"time"
)

// toUnixMillis converts an expiry time to a nullable column value. The zero
// time means no expiry and is stored as NULL.
func toUnixMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

// expired reports whether a stored expiry has passed at now.
func expired(expiresAt sql.NullInt64, now time.Time) bool {
	return expiresAt.Valid && expiresAt.Int64 <= now.UnixMilli()
}
