package types

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when a write carries no submitter or creator
// identity.
var ErrUnauthorized = errors.New("unauthorized")

// StorageError wraps a failed read or write against the document store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}
