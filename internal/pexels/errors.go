package pexels

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates the request URL could not be built.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTransport indicates a network, timeout or HTTP status failure.
	ErrTransport = errors.New("transport failure")
	// ErrEmptyResponse indicates the server answered without a body.
	ErrEmptyResponse = errors.New("empty response")
	// ErrDecode indicates the body did not match the expected schema.
	ErrDecode = errors.New("decode failure")
)

// FetchError is returned by every failed page request.
type FetchError struct {
	Kind   error
	Page   int
	Detail string
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("page %d: %v", e.Page, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message is the text shown to users when a load fails.
func (e *FetchError) Message() string {
	switch e.Kind {
	case ErrInvalidRequest:
		return "Invalid URL"
	case ErrEmptyResponse:
		return "No data received"
	case ErrDecode:
		return "Failed to decode response"
	default:
		return "Server error: " + e.Detail
	}
}

// Message extracts a user-facing message from any error, falling back to
// err.Error() for errors that did not come from this package.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return err.Error()
}

func newError(kind error, page int, detail string, err error) *FetchError {
	return &FetchError{Kind: kind, Page: page, Detail: detail, Err: err}
}
