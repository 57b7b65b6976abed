package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// ErrNoDSN is returned by New when the configuration has no DSN.
var ErrNoDSN = errors.New("no database DSN configured")

// Database holds the SQL connection pool of the conversion log.
type Database struct {
	*sql.DB
}

// New creates, configures, and verifies a MySQL connection pool.
// It returns an error if opening or pinging the database fails.
func New(ctx context.Context, cfg MariaDbConfig) (*Database, error) {
	if !cfg.Enabled() {
		return nil, ErrNoDSN
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		// close the connection pool before returning the ping error
		if cErr := db.Close(); cErr != nil {
			return nil, errors.Join(err, cErr)
		}
		return nil, err
	}
	return &Database{db}, nil
}
