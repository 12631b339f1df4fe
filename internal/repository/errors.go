package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no row. It wraps sql.ErrNoRows.
var ErrNotFound = fmt.Errorf("record not found: %w", sql.ErrNoRows)

// ErrorKind classifies persistence failures.
type ErrorKind int

const (
	// KindStorageFailure covers connectivity, constraint, and any other store error.
	KindStorageFailure ErrorKind = iota
	// KindNotFound means the requested row does not exist.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindStorageFailure:
		return "storage_failure"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Kind reports the class of a non-nil persistence error.
func Kind(err error) ErrorKind {
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}
	return KindStorageFailure
}
