package wtransfer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when the constants cannot produce a meaningful transfer.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrNonConvergence flags an integration which hit the time cap before reaching the target radius.
	ErrNonConvergence = errors.New("integration did not reach the target radius")
)

// ConfigError describes which configuration field is invalid.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s=%g %s", ErrInvalidConfiguration, e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfiguration).
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}
