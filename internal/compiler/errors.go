package compiler

import (
	"errors"
	"fmt"
)

var (
	// ErrToolchainUnavailable is returned when a framework needs an external
	// toolchain and none is configured
	ErrToolchainUnavailable = errors.New("toolchain unavailable")
	// ErrUnresolvedImport is returned for imports outside the source set
	ErrUnresolvedImport = errors.New("unresolved import")
)

// BuildError is a compile failure located in a source file
type BuildError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *BuildError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}
