package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ConfigError reports missing external credentials. It is fatal to the operation attempted
// and its message is meant to be shown as is.
type ConfigError struct {
	msg string
}

func NewConfigError(msg string) error {
	return &ConfigError{msg: msg}
}

func (err *ConfigError) Error() string {
	return err.msg
}

func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigError)
	return ok
}

// RemoteError is a transport or non-2xx failure from an external service.
type RemoteError struct {
	Service    string
	StatusCode int // 0 when the request never got a response
	Message    string
}

func NewRemoteError(service string, statusCode int, msg string) error {
	return &RemoteError{Service: service, StatusCode: statusCode, Message: msg}
}

func (err *RemoteError) Error() string {
	if err.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", err.Service, err.Message)
	}
	return fmt.Sprintf("%s: %d %s", err.Service, err.StatusCode, err.Message)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
