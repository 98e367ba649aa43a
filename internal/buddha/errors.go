package buddha

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrConfiguration indicates a rejected configuration value.
	ErrConfiguration = errors.New("buddha: invalid configuration")

	// ErrResourceInit indicates a compute, display or export resource could not be set up.
	ErrResourceInit = errors.New("buddha: resource initialization failed")
)

// ConfigError describes one rejected configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigError returns a *ConfigError for field.
func NewConfigError(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// ResourceError wraps the failure of a named resource.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: unavailable", e.Resource)
	}
	return fmt.Sprintf("%s: %v", e.Resource, e.Err)
}

// Is reports ErrResourceInit so callers can match the kind without unwrapping twice.
func (e *ResourceError) Is(target error) bool {
	return target == ErrResourceInit
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError returns a *ResourceError for resource.
func NewResourceError(resource string, err error) error {
	return &ResourceError{Resource: resource, Err: err}
}
