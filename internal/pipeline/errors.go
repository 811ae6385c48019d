package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures
type ErrorKind int

const (
	KindMissingEntry ErrorKind = iota
	KindTransformFailure
	KindRemoteUnavailable
	KindUnsupportedFramework
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingEntry:
		return "missing_entry"
	case KindTransformFailure:
		return "transform_failure"
	case KindRemoteUnavailable:
		return "remote_unavailable"
	case KindUnsupportedFramework:
		return "unsupported_framework"
	default:
		return "unknown"
	}
}

var (
	ErrMissingEntry         = errors.New("missing entry")
	ErrTransformFailure     = errors.New("transform failure")
	ErrRemoteUnavailable    = errors.New("remote compiler unavailable")
	ErrUnsupportedFramework = errors.New("unsupported framework")
)

// UnknownFile is reported when a failure is not tied to a source file
const UnknownFile = "unknown"

// Error is a classified pipeline failure
type Error struct {
	Kind    ErrorKind
	File    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMissingEntry:
		return ErrMissingEntry
	case KindTransformFailure:
		return ErrTransformFailure
	case KindRemoteUnavailable:
		return ErrRemoteUnavailable
	case KindUnsupportedFramework:
		return ErrUnsupportedFramework
	default:
		return nil
	}
}

func missingEntry(file, message string) *Error {
	return &Error{Kind: KindMissingEntry, File: file, Message: message}
}

// RemoteError wraps a remote failure as RemoteUnavailable
func RemoteError(err error) *Error {
	return &Error{Kind: KindRemoteUnavailable, File: UnknownFile, Message: "compile service unavailable", Err: err}
}
