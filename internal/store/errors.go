package store

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Add when the text is blank after trimming.
	ErrEmptyInput = errors.New("task text is empty")

	// ErrPersistence matches every *PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence failure")

	// ErrCorruptSnapshot matches every *CorruptSnapshotError via errors.Is.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// PersistenceError reports a failed read or write of the backing key-value
// store. The in-memory collection is still valid when one is returned.
type PersistenceError struct {
	Op  string // "load", "save" or "delete"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// CorruptSnapshotError reports a persisted snapshot that could not be used
// as-is. Load has already fallen back when one is returned.
type CorruptSnapshotError struct {
	Reason string
	Err    error
}

func (e *CorruptSnapshotError) Error() string {
	if e.Err == nil {
		return "corrupt snapshot: " + e.Reason
	}
	return fmt.Sprintf("corrupt snapshot: %s: %v", e.Reason, e.Err)
}

func (e *CorruptSnapshotError) Unwrap() error { return e.Err }

func (e *CorruptSnapshotError) Is(target error) bool { return target == ErrCorruptSnapshot }
