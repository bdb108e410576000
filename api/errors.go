// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for wsreactor.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrWouldBlock         = errors.New("operation would block")
	ErrTransportClosed    = errors.New("transport is closed")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotSupported       = errors.New("operation not supported")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrNotFound           = errors.New("resource not found")
	ErrMalformedHandshake = errors.New("malformed handshake")
	ErrHandshakeTimeout   = errors.New("handshake timeout")
)

// ErrorCode classifies why a connection was terminated.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeTransport
	ErrCodeMalformed
	ErrCodeRegistration
	ErrCodeTimeout
	ErrCodeInternal
)

// String returns the metric/log label for the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeTransport:
		return "transport"
	case ErrCodeMalformed:
		return "malformed"
	case ErrCodeRegistration:
		return "registration"
	case ErrCodeTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WrapError creates a structured error around cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	e := NewError(code, message)
	e.Err = cause
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Classify maps an arbitrary error onto an ErrorCode. Structured errors keep
// their own code; malformed-handshake and timeout sentinels are recognised
// through wrapping; everything else is a transport failure.
func Classify(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	switch {
	case errors.Is(err, ErrMalformedHandshake):
		return ErrCodeMalformed
	case errors.Is(err, ErrHandshakeTimeout):
		return ErrCodeTimeout
	default:
		return ErrCodeTransport
	}
}
