package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField       = errors.New("required field is missing")
	ErrUnknownTransport   = errors.New("unknown transport")
	ErrInvalidPort        = errors.New("port must be between 1 and 65535")
	ErrRelativeTarget     = errors.New("remote target directory must be an absolute path")
	ErrConfigNotFound     = errors.New("config file not found")
	ErrBackupInsideTarget = errors.New("backup directory must not be inside the remote target directory")
)

// ConfigError reports a configuration problem found before any remote action.
type ConfigError struct {
	Field string
	Err   error
}

func (ce *ConfigError) Error() string {
	if ce.Field == "" {
		return fmt.Sprintf("config: %v", ce.Err)
	}
	return fmt.Sprintf("config: %s: %v", ce.Field, ce.Err)
}

func (ce *ConfigError) Unwrap() error {
	return ce.Err
}

func fieldError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}
