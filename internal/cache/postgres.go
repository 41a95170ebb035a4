package cache

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-solo/db/sqlc"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

// PostgresStore keeps entries in the session_states table so several
// server instances can share sessions. Lock takes a postgres advisory
// lock, which keeps work on one key serialized across those instances.
type PostgresStore struct {
	db            *sql.DB
	queries       *sqlc.Queries
	purgeInterval time.Duration
	now           clock
}

var (
	_ Store  = (*PostgresStore)(nil)
	_ Locker = (*PostgresStore)(nil)
)

func NewPostgresStore(db *sql.DB, purgeInterval time.Duration) *PostgresStore {
	if purgeInterval <= 0 {
		purgeInterval = DefaultCleanupInterval
	}
	return &PostgresStore{
		db:            db,
		queries:       sqlc.New(db),
		purgeInterval: purgeInterval,
		now:           time.Now,
	}
}

func (ps *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if ps == nil || ps.queries == nil {
		return nil, false, cerr.ErrStorageNotConfigured()
	}

	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()

	row, err := ps.queries.GetSessionState(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session state %s: %w", key, err)
	}

	if !ps.now().Before(row.ExpiresAt) {
		if err := ps.queries.DeleteSessionState(ctx, key); err != nil {
			log.Printf("failed to delete expired session state %s: %v", key, err)
		}
		return nil, false, nil
	}
	if !row.State.Valid {
		return nil, false, nil
	}
	return []byte(row.State.RawMessage), true, nil
}

// Set stores value in a jsonb column, so value must be valid JSON.
func (ps *PostgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ps == nil || ps.queries == nil {
		return cerr.ErrStorageNotConfigured()
	}
	if !json.Valid(value) {
		return fmt.Errorf("set session state %s: value is not valid json", key)
	}

	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := ps.queries.UpsertSessionState(ctx, ps.upsertParams(key, value, ttl)); err != nil {
		return fmt.Errorf("upsert session state %s: %w", key, err)
	}
	return nil
}

// SetMany upserts every entry in one transaction.
func (ps *PostgresStore) SetMany(ctx context.Context, ttl time.Duration, entries ...Entry) error {
	if ps == nil || ps.db == nil {
		return cerr.ErrStorageNotConfigured()
	}
	for _, entry := range entries {
		if !json.Valid(entry.Value) {
			return fmt.Errorf("set session state %s: value is not valid json", entry.Key)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session state tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := ps.queries.WithTx(tx)
	for _, entry := range entries {
		if err := qtx.UpsertSessionState(ctx, ps.upsertParams(entry.Key, entry.Value, ttl)); err != nil {
			return fmt.Errorf("upsert session state %s: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session state tx: %w", err)
	}
	return nil
}

func (ps *PostgresStore) upsertParams(key string, value []byte, ttl time.Duration) sqlc.UpsertSessionStateParams {
	return sqlc.UpsertSessionStateParams{
		Key:       key,
		State:     pqtype.NullRawMessage{RawMessage: json.RawMessage(value), Valid: true},
		ExpiresAt: ps.now().Add(ttl).UTC(),
	}
}

// Lock holds a session level advisory lock on a dedicated connection until
// the returned func runs. Advisory locks belong to the connection that
// took them, so the connection stays out of the pool meanwhile.
func (ps *PostgresStore) Lock(ctx context.Context, key string) (func(), error) {
	if ps == nil || ps.db == nil {
		return nil, cerr.ErrStorageNotConfigured()
	}

	conn, err := ps.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("lock session %s: %w", key, err)
	}

	q := sqlc.New(conn)
	if err := q.AcquireSessionLock(ctx, key); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("lock session %s: %w", key, err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
		defer cancel()

		if err := q.ReleaseSessionLock(ctx, key); err != nil {
			log.Printf("failed to release session lock %s: %v", key, err)
			// dropping the connection ends its session and with it the lock
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		_ = conn.Close()
	}, nil
}

func (ps *PostgresStore) Remove(ctx context.Context, key string) error {
	if ps == nil || ps.queries == nil {
		return cerr.ErrStorageNotConfigured()
	}

	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := ps.queries.DeleteSessionState(ctx, key); err != nil {
		return fmt.Errorf("delete session state %s: %w", key, err)
	}
	return nil
}

func (ps *PostgresStore) Purge(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()
	return ps.queries.DeleteExpiredSessionStates(ctx, ps.now().UTC())
}

func (ps *PostgresStore) PurgePeriodically(ctx context.Context) {
	ticker := time.NewTicker(ps.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := ps.Purge(ctx)
			if err != nil {
				log.Println("failed to purge expired session states:", err)
				continue
			}
			if removed > 0 {
				log.Printf("purged %d expired session states", removed)
			}
		}
	}
}
