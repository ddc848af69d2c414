// Package kv provides the string key-value persistence the task list is
// snapshotted into. Backends overwrite whole values; there are no partial writes.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Store defines the interface for key-value persistence.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Lifecycle
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown kv backend")

// Options selects and configures a backend for Open.
type Options struct {
	Backend  string
	Driver   string // sql driver for the sqlite backend
	DBPath   string
	FilePath string

	Logger *log.Logger // receives migration progress; nil discards
}

// Open creates the backend named by opts.Backend.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendSQLite, "":
		s, err := OpenSQLite(opts.Driver, opts.DBPath, opts.Logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		s, err := OpenFile(opts.FilePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
