package repository

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every error caused by the underlying database.
var ErrUnavailable = errors.New("storage unavailable")

// StorageError wraps a database failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnavailable) true for any StorageError.
func (e *StorageError) Is(target error) bool { return target == ErrUnavailable }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
