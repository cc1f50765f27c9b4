package prefcenter

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	ErrInvalid      = "invalid"
	ErrUnauthorized = "unauthorized"
	ErrForbidden    = "forbidden"
	ErrNotFound     = "not_found"
	ErrInternal     = "internal"
)

type Error struct {
	Code    string
	Message string
	Op      string
	Err     error
}

func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}

	return ErrInternal
}

func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}

	return "An internal error has occurred."
}

func (e *Error) Error() string {
	var buf bytes.Buffer

	if e.Op != "" {
		fmt.Fprintf(&buf, "%s: ", e.Op)
	}

	if e.Err != nil {
		buf.WriteString(e.Err.Error())
	} else {
		if e.Code != "" {
			fmt.Fprintf(&buf, "<%s> ", e.Code)
		}
		buf.WriteString(e.Message)
	}

	return buf.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RemoteError is a structured rejection from the subscription backend. The
// status code follows HTTP conventions: 403 means a bad or expired token,
// 404 an unknown email address.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: backend returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NetworkError means the subscription backend could not be reached at all.
// Callers must not retry: the backend gives no idempotency guarantee, so a
// retry risks duplicate side effects.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteStatusCode returns the backend status code carried by err, or 0 when
// err is not a backend rejection.
func RemoteStatusCode(err error) int {
	var e *RemoteError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsNetworkError reports whether err means the backend was unreachable.
func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}
