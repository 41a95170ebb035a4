package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_states (
    key        TEXT PRIMARY KEY,
    state      BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS session_states_expires_at_idx ON session_states (expires_at);
`

// SQLiteStore keeps entries in a local sqlite file, for single instance
// deployments that should survive a restart. It offers no cross-process
// lock, so one file must back one server.
type SQLiteStore struct {
	sqlDB *sql.DB
	now   clock
}

var _ Store = (*SQLiteStore)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteStore{sqlDB: sqlDB, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.sqlDB == nil {
		return nil, false, cerr.ErrStorageNotConfigured()
	}

	var (
		value     []byte
		expiresAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT state, expires_at FROM session_states WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session state %s: %w", key, err)
	}

	if toMillis(s.now()) >= expiresAt {
		if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session_states WHERE key = ? AND expires_at <= ?`, key, toMillis(s.now())); err != nil {
			log.Printf("failed to delete expired session state %s: %v", key, err)
		}
		return nil, false, nil
	}
	return value, true, nil
}

const sqliteUpsert = `INSERT INTO session_states (key, state, expires_at) VALUES (?, ?, ?)
 ON CONFLICT(key) DO UPDATE SET state = excluded.state, expires_at = excluded.expires_at`

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.SetMany(ctx, ttl, Entry{Key: key, Value: value})
}

func (s *SQLiteStore) SetMany(ctx context.Context, ttl time.Duration, entries ...Entry) error {
	if s == nil || s.sqlDB == nil {
		return cerr.ErrStorageNotConfigured()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session state tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	expiresAt := toMillis(s.now().Add(ttl))
	for _, entry := range entries {
		value := entry.Value
		if value == nil {
			value = []byte{}
		}
		if _, err := tx.ExecContext(ctx, sqliteUpsert, entry.Key, value, expiresAt); err != nil {
			return fmt.Errorf("upsert session state %s: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session state tx: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if s == nil || s.sqlDB == nil {
		return cerr.ErrStorageNotConfigured()
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session_states WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete session state %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session_states WHERE expires_at <= ?`, toMillis(s.now()))
	if err != nil {
		return 0, fmt.Errorf("purge session states: %w", err)
	}
	return result.RowsAffected()
}

func (s *SQLiteStore) PurgePeriodically(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Purge(ctx)
			if err != nil {
				log.Println(err)
				continue
			}
			if removed > 0 {
				log.Printf("purged %d expired session states", removed)
			}
		}
	}
}
