package seqlog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `CREATE TABLE IF NOT EXISTS sequences (
	id INTEGER PRIMARY KEY,
	seq TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteLog keeps sequences in a SQLite table. Several processes may append
// to the same database; writes that find it locked are retried.
type SQLiteLog struct {
	db *sql.DB
}

func NewSQLiteLog(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 1000"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteLog{db: db}, nil
}

func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

func (l *SQLiteLog) Append(ctx context.Context, seq string) error {
	return retry.Do(
		func() error {
			_, err := l.db.ExecContext(ctx, "INSERT INTO sequences (seq) VALUES (?)", seq)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(20*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isBusy),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Uint("attempt", n).Err(err).Msg("sqlite-append-retry")
		}),
	)
}

func (l *SQLiteLog) ReadAll(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT seq FROM sequences ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		lines = append(lines, s)
	}
	return lines, rows.Err()
}

// Count returns the number of stored sequences.
func (l *SQLiteLog) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sequences").Scan(&n)
	return n, err
}

func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
