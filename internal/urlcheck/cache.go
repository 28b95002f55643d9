package urlcheck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/kbaudit/internal/sqlutil"
)

// CacheFile is the cache database path relative to the corpus root.
const CacheFile = ".kbaudit/urlcache.db"

// Cache persists check results between runs in SQLite.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open url cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS url_checks (
			url TEXT NOT NULL,
			cited_title TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			page_title TEXT NOT NULL DEFAULT '',
			checked_at INTEGER NOT NULL,
			PRIMARY KEY (url, cited_title)
		);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize url cache: %w", err)
	}
	return nil
}

// Get returns a cached result no older than ttl.
func (c *Cache) Get(ctx context.Context, url, citedTitle string, ttl time.Duration, now time.Time) (Result, bool, error) {
	var (
		res       Result
		status    string
		checkedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT status, reason, page_title, checked_at FROM url_checks WHERE url = ? AND cited_title = ?`,
		url, citedTitle,
	).Scan(&status, &res.Reason, &res.PageTitle, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("read url cache: %w", err)
	}
	if now.Sub(time.Unix(checkedAt, 0)) > ttl {
		return Result{}, false, nil
	}

	res.URL = url
	res.Status = Status(status)
	res.Cached = true
	return res, true, nil
}

// Put stores a result.
func (c *Cache) Put(ctx context.Context, citedTitle string, res Result, now time.Time) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO url_checks (url, cited_title, status, reason, page_title, checked_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (url, cited_title) DO UPDATE SET
			status = excluded.status,
			reason = excluded.reason,
			page_title = excluded.page_title,
			checked_at = excluded.checked_at
	`, res.URL, citedTitle, string(res.Status), res.Reason, res.PageTitle, now.Unix())
	if err != nil {
		return fmt.Errorf("write url cache: %w", err)
	}
	return nil
}

// Prune deletes entries older than ttl and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, ttl time.Duration, now time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM url_checks WHERE checked_at < ?`, now.Add(-ttl).Unix())
	if err != nil {
		return 0, fmt.Errorf("prune url cache: %w", err)
	}
	return res.RowsAffected()
}

// Retain deletes entries for URLs not in keep and returns the URLs it
// removed, sorted.
func (c *Cache) Retain(ctx context.Context, keep []string) ([]string, error) {
	query := `SELECT DISTINCT url FROM url_checks ORDER BY url`
	var args []any
	if len(keep) > 0 {
		var ph string
		ph, args = sqlutil.InClauseArgs(keep)
		query = `SELECT DISTINCT url FROM url_checks WHERE url NOT IN (` + ph + `) ORDER BY url`
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read url cache: %w", err)
	}
	gone, err := sqlutil.ScanRows(rows, sqlutil.ScanString)
	if err != nil {
		return nil, fmt.Errorf("read url cache: %w", err)
	}
	if len(gone) == 0 {
		return nil, nil
	}

	ph, args := sqlutil.InClauseArgs(gone)
	if _, err := c.db.ExecContext(ctx, `DELETE FROM url_checks WHERE url IN (`+ph+`)`, args...); err != nil {
		return nil, fmt.Errorf("prune url cache: %w", err)
	}
	return gone, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
