package dialect

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is matched by every error returned while building a Format.
var ErrInvalidFormat = errors.New("invalid format")

// ConfigError reports an invalid combination of format settings.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidFormat, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidFormat
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}
