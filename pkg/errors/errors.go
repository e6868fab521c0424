package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Enumeration errors abort a whole source run: without a document list there
// is nothing left to process for that source this cycle.
var (
	ErrSourceUnavailable = New("SOURCE_UNAVAILABLE", http.StatusBadGateway, "source unreachable")
	ErrInvalidToken      = New("INVALID_TOKEN", http.StatusUnauthorized, "webservice token rejected")
	ErrInvalidRecord     = New("INVALID_RECORD", http.StatusBadGateway, "webservice record rejected")
)

// Per-document errors are isolated: the document is marked crashed and the
// run continues with the next one.
var (
	ErrUnknownDateFormat   = New("UNKNOWN_DATE_FORMAT", http.StatusUnprocessableEntity, "no known naming pattern matches the document")
	ErrSubstitutionsFormat = New("SUBSTITUTIONS_FORMAT", http.StatusUnprocessableEntity, "unexpected substitutions document format")
	ErrLunchScheduleFormat = New("LUNCH_SCHEDULE_FORMAT", http.StatusUnprocessableEntity, "unexpected lunch schedule document format")
	ErrMenuFormat          = New("MENU_FORMAT", http.StatusUnprocessableEntity, "unexpected menu document format")
	ErrParseFailed         = New("PARSE_FAILED", http.StatusUnprocessableEntity, "document extraction failed")
	ErrDownloadFailed      = New("DOWNLOAD_FAILED", http.StatusBadGateway, "document download failed")
)

// Ops API errors.
var (
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict     = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
