// Package database opens the postgres fee ledger.
package database

import (
	"context"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kowsik11/GradeKart-Dev-sub000/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS fee (
	id          TEXT PRIMARY KEY,
	student_key TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT 'other',
	label       TEXT NOT NULL,
	cycle       TEXT,
	amount_due  BIGINT NOT NULL CHECK (amount_due >= 0),
	amount_paid BIGINT NOT NULL DEFAULT 0 CHECK (amount_paid >= 0),
	due_date    DATE
);
CREATE INDEX IF NOT EXISTS fee_student_key_idx ON fee (student_key);
`

func dsn(conf core.DatabaseConfig) string {
	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Engine,
		User:     url.UserPassword(conf.User, conf.Password),
		Host:     conf.Address(),
		Path:     conf.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(conf.Database.Engine, dsn(conf.Database))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	return db, nil
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping cancelled")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate creates the ledger tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
