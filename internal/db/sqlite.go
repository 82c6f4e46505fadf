// Package db provides database connectivity helpers and migration support
// for the vault metastore.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// PoolMode selects the pool profile for an SQLite connection.
type PoolMode string

const (
	// ModeWrite serializes all writers: MaxOpenConns=1 and
	// _txlock=immediate, so every transaction takes the write lock up
	// front. Checkout/check-in atomicity depends on this profile.
	ModeWrite PoolMode = "write"
	// ModeRead is a concurrent read pool without _txlock.
	ModeRead PoolMode = "read"
)

// SQLite DSN parameters for production hardening.
const (
	busyTimeoutMillis  = "5000"
	synchronousSetting = "NORMAL"
	journalMode        = "WAL"
)

// OpenSQLite opens a *sql.DB pool for the given SQLite file path.
//
// For ModeRead, maxOpen controls the pool size (0 defaults to 4). Both modes
// set WAL journal, busy_timeout=5000ms, synchronous=NORMAL, and
// foreign_keys=on.
func OpenSQLite(path string, mode PoolMode, maxOpen int) (*sql.DB, error) {
	if mode != ModeRead && mode != ModeWrite {
		return nil, fmt.Errorf("invalid SQLite mode %q: must be \"read\" or \"write\"", mode)
	}

	pool, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	switch mode {
	case ModeWrite:
		pool.SetMaxOpenConns(1)
		pool.SetMaxIdleConns(1)
	case ModeRead:
		if maxOpen <= 0 {
			maxOpen = 4
		}
		pool.SetMaxOpenConns(maxOpen)
		pool.SetMaxIdleConns(maxOpen)
	}
	pool.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}

	return pool, nil
}

// OpenSQLitePair opens both a write pool (single connection) and a read pool
// for the same SQLite file. The vault routes all lock and ledger mutations
// through the write pool and serves reads from the read pool.
//
// readMaxOpen controls the read pool size (0 defaults to 4).
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = OpenSQLite(path, ModeWrite, 0)
	if err != nil {
		return nil, nil, err
	}

	readDB, err = OpenSQLite(path, ModeRead, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}

	return writeDB, readDB, nil
}

// buildDSN constructs a SQLite DSN with hardened parameters.
func buildDSN(path string, mode PoolMode) string {
	params := url.Values{}
	params.Set("_journal_mode", journalMode)
	params.Set("_busy_timeout", busyTimeoutMillis)
	params.Set("_synchronous", synchronousSetting)
	params.Set("_foreign_keys", "on")

	if mode == ModeWrite {
		params.Set("_txlock", "immediate")
	}

	return path + "?" + params.Encode()
}
