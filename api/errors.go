// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-rt.
// Backends return these values (usually wrapping the OS-level cause);
// the dispatcher passes them through untouched.

package api

import (
	"fmt"
	"strings"
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeTimeout
	ErrCodeNotSupported
	ErrCodeNotFound
	ErrCodeInternal
	ErrCodeUnsupportedRuntime
	ErrCodeNoRuntime
	ErrCodeAmbiguousRuntime
	ErrCodeConnect
	ErrCodeConnectTimeout
	ErrCodeRead
	ErrCodeReadTimeout
	ErrCodeWrite
	ErrCodeWriteTimeout
	ErrCodeProxy
	ErrCodeUnsupportedProxy
	ErrCodePathNotFound
)

// Common errors used across the library. Match with errors.Is; the
// comparison is by code, so wrapped and context-carrying copies match too.
var (
	ErrInvalidArgument  = &Error{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
	ErrOperationTimeout = &Error{Code: ErrCodeTimeout, Message: "operation timeout"}
	ErrNotSupported     = &Error{Code: ErrCodeNotSupported, Message: "operation not supported"}

	// Resolution failures.
	ErrUnsupportedRuntime = &Error{Code: ErrCodeUnsupportedRuntime, Message: "unsupported concurrency runtime"}
	ErrNoRuntime          = &Error{Code: ErrCodeNoRuntime, Message: "no concurrency runtime detected"}
	ErrAmbiguousRuntime   = &Error{Code: ErrCodeAmbiguousRuntime, Message: "ambiguous concurrency runtime"}

	// Adapter failures.
	ErrConnect          = &Error{Code: ErrCodeConnect, Message: "connect failed"}
	ErrConnectTimeout   = &Error{Code: ErrCodeConnectTimeout, Message: "connect timeout"}
	ErrRead             = &Error{Code: ErrCodeRead, Message: "read failed"}
	ErrReadTimeout      = &Error{Code: ErrCodeReadTimeout, Message: "read timeout"}
	ErrWrite            = &Error{Code: ErrCodeWrite, Message: "write failed"}
	ErrWriteTimeout     = &Error{Code: ErrCodeWriteTimeout, Message: "write timeout"}
	ErrProxy            = &Error{Code: ErrCodeProxy, Message: "proxy error"}
	ErrUnsupportedProxy = &Error{Code: ErrCodeUnsupportedProxy, Message: "unsupported proxy type"}
	ErrPathNotFound     = &Error{Code: ErrCodePathNotFound, Message: "socket path not found"}
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Context) > 0 {
		fmt.Fprintf(&b, " (context: %+v)", e.Context)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Wrap returns a copy of kind carrying cause. Sentinels are never mutated.
func Wrap(kind *Error, cause error) *Error {
	return &Error{Code: kind.Code, Message: kind.Message, Err: cause}
}
