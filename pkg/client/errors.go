package client

import (
	"errors"
	"fmt"

	"github.com/Sternrassler/pagefetch/pkg/pagination"
)

// ErrorClass represents a classification of page fetch errors.
type ErrorClass string

const (
	// ErrorClassTransport represents connection and timeout failures.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx and other unexpected statuses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassDecode represents bodies that are not a page.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassInconsistent represents absent or nonsensical pagination metadata.
	ErrorClassInconsistent ErrorClass = "inconsistent"
)

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Page int
	Err  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on page %d: %v", e.Page, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Page       int
	StatusCode int
	ErrorClass ErrorClass
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error on page %d (status %d): %s",
		e.ErrorClass, e.Page, e.StatusCode, e.Message)
}

// DecodeError is returned when the response body does not match the page shape.
type DecodeError struct {
	Page int
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error on page %d: %v", e.Page, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-2xx status code to an error class.
func classifyStatus(statusCode int) ErrorClass {
	if statusCode >= 400 && statusCode < 500 {
		return ErrorClassClient
	}
	return ErrorClassServer
}

// Classify returns the class of an error produced by FetchPage, or "" for
// errors that did not come from this package.
func Classify(err error) ErrorClass {
	var (
		transportErr    *TransportError
		statusErr       *StatusError
		decodeErr       *DecodeError
		inconsistentErr *pagination.InconsistentPaginationError
	)
	switch {
	case errors.As(err, &transportErr):
		return ErrorClassTransport
	case errors.As(err, &statusErr):
		return statusErr.ErrorClass
	case errors.As(err, &decodeErr):
		return ErrorClassDecode
	case errors.As(err, &inconsistentErr):
		return ErrorClassInconsistent
	default:
		return ""
	}
}
