package db

import "time"

type MariaDbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled reports whether a DSN was configured. The conversion log is
// optional and skipped without one.
func (c MariaDbConfig) Enabled() bool {
	return c.DSN != ""
}
