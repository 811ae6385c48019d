package utils

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// Request size limits (in bytes)
const (
	MaxRequestSize = 2 * 1024 * 1024 // 2MB - maximum compile payload
	MaxFileSize    = 512 * 1024      // 512KB - single source file
	MaxFileCount   = 64
	MaxNameLength  = 256
)

// FileNamePattern allows relative paths of safe segments
var FileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._@-]+(/[a-zA-Z0-9._@-]+)*$`)

// Limits bounds a source set
type Limits struct {
	MaxFiles     int
	MaxFileBytes int
	MaxBytes     int
}

// DefaultLimits returns the package defaults
func DefaultLimits() Limits {
	return Limits{MaxFiles: MaxFileCount, MaxFileBytes: MaxFileSize, MaxBytes: MaxRequestSize}
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateFileName rejects absolute paths, parent traversal and odd characters
func ValidateFileName(name string) error {
	if err := ValidateString(name, "file name", 1, MaxNameLength, true); err != nil {
		return err
	}
	if strings.HasPrefix(name, "/") || path.Clean(name) != name {
		return fmt.Errorf("file name %q must be a clean relative path", name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." || seg == "." {
			return fmt.Errorf("file name %q must not contain relative segments", name)
		}
	}
	if !FileNamePattern.MatchString(name) {
		return fmt.Errorf("file name %q contains invalid characters", name)
	}
	return nil
}

// SourceSetError is a rejected source set. File names the offending file
// and is empty when the whole set is at fault.
type SourceSetError struct {
	File    string
	Message string
}

func (e *SourceSetError) Error() string {
	return e.Message
}

func setError(file, format string, args ...interface{}) *SourceSetError {
	return &SourceSetError{File: file, Message: fmt.Sprintf(format, args...)}
}

// ValidateSourceSet checks names and sizes against limits. Failures are
// returned as *SourceSetError.
func ValidateSourceSet(set types.SourceSet, limits Limits) error {
	if set.Len() == 0 {
		return setError("index.html", "at least one file is required")
	}
	if limits.MaxFiles > 0 && set.Len() > limits.MaxFiles {
		return setError("", "too many files (%d, maximum %d)", set.Len(), limits.MaxFiles)
	}
	total := 0
	for _, rec := range set.Records() {
		if err := ValidateFileName(rec.Name); err != nil {
			return setError(rec.Name, "%s", err.Error())
		}
		if limits.MaxFileBytes > 0 && len(rec.Content) > limits.MaxFileBytes {
			return setError(rec.Name, "%s exceeds %d bytes", rec.Name, limits.MaxFileBytes)
		}
		total += len(rec.Content)
	}
	if limits.MaxBytes > 0 && total > limits.MaxBytes {
		return setError("", "sources total %d bytes, maximum %d", total, limits.MaxBytes)
	}
	return nil
}
