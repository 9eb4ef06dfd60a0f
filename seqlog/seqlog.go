// Package seqlog stores the encoded move sequences collected from
// self-play, one string per game.
package seqlog

import (
	"context"
	"fmt"
)

// Log is an append-only collection of encoded sequences.
type Log interface {
	Append(ctx context.Context, seq string) error
	// ReadAll returns every sequence in insertion order. A log that was
	// never written to reads as empty.
	ReadAll(ctx context.Context) ([]string, error)
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns a log of the named backend stored at path.
func Open(backend, path string) (Log, error) {
	switch backend {
	case BackendFile, "":
		return NewFileLog(path), nil
	case BackendSQLite:
		return NewSQLiteLog(path)
	}
	return nil, fmt.Errorf("unknown sequence log backend %q", backend)
}
