// Package errors defines the coded errors shared by packing, document I/O,
// the CLI and the HTTP API.
//
// Every failure a caller may want to branch on carries a [Code]. The CLI
// prints [UserMessage]; the API returns the code together with the message
// and answers with [HTTPStatus].
//
//	err := errors.New(errors.ErrCodeInvalidCellSize, "cell width must be positive, got %v", w)
//	if errors.Is(err, errors.ErrCodeInvalidCellSize) {
//	    ...
//	}
//
// Codes group by prefix: INVALID_* for rejected input, *NOT_FOUND and
// *OUT_OF_RANGE for lookups that miss, and the rest for failures on the
// serving side.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidCellSize  Code = "INVALID_CELL_SIZE"
	ErrCodeInvalidViewport  Code = "INVALID_VIEWPORT"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"
	ErrCodeInvalidItemID    Code = "INVALID_ITEM_ID"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodeItemOutOfRange Code = "ITEM_OUT_OF_RANGE"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidFormat:    http.StatusBadRequest,
	ErrCodeInvalidDirection: http.StatusBadRequest,
	ErrCodeInvalidCellSize:  http.StatusBadRequest,
	ErrCodeInvalidViewport:  http.StatusBadRequest,
	ErrCodeInvalidDocument:  http.StatusBadRequest,
	ErrCodeInvalidItemID:    http.StatusBadRequest,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeFileNotFound:     http.StatusNotFound,
	ErrCodeItemOutOfRange:   http.StatusNotFound,
	ErrCodeNetwork:          http.StatusBadGateway,
	ErrCodeTimeout:          http.StatusGatewayTimeout,
	ErrCodeUnsupported:      http.StatusNotImplemented,
}

// Status returns the HTTP status for c. Unknown codes and
// ErrCodeInternal map to 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a code, a message for people, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the API responds with.
func HTTPStatus(err error) int { return GetCode(err).Status() }

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
