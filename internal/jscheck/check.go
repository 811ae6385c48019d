// Package jscheck pre-checks plain preview scripts with the goja parser.
//
// Findings are advisory: they become outcome warnings and never block a
// compile, since the browser is the final judge of what runs.
package jscheck

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dop251/goja"
)

// DefaultMaxSize bounds the source size worth parsing
const DefaultMaxSize = 256 * 1024

// modulePattern matches ES module syntax, which goja scripts do not accept
var modulePattern = regexp.MustCompile(`(?m)^\s*(import|export)\b`)

// Checker parses scripts and reports syntax errors
type Checker struct {
	maxSize int
}

// New creates a checker. maxSize <= 0 uses DefaultMaxSize.
func New(maxSize int) *Checker {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Checker{maxSize: maxSize}
}

// Check returns one warning per syntax error. Module sources, oversized
// sources and empty sources are skipped.
func (c *Checker) Check(name, src string) []string {
	if strings.TrimSpace(src) == "" || len(src) > c.maxSize || modulePattern.MatchString(src) {
		return nil
	}
	if _, err := goja.Compile(name, src, false); err != nil {
		return []string{describe(name, err)}
	}
	return nil
}

func describe(name string, err error) string {
	var syntaxErr *goja.CompilerSyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("%s: syntax error: %s", name, strings.TrimSpace(syntaxErr.Message))
	}
	return fmt.Sprintf("%s: %v", name, err)
}
