package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFramework is returned for identifiers outside the closed set.
var ErrUnsupportedFramework = errors.New("unsupported framework")

// Framework identifies the target runtime of a project
type Framework string

const (
	FrameworkVanilla Framework = "vanilla"
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkSvelte  Framework = "svelte"
)

// Frameworks lists every supported framework in display order
func Frameworks() []Framework {
	return []Framework{FrameworkVanilla, FrameworkReact, FrameworkVue, FrameworkSvelte}
}

// ParseFramework validates a framework identifier
func ParseFramework(s string) (Framework, error) {
	fw := Framework(strings.ToLower(strings.TrimSpace(s)))
	if !fw.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFramework, s)
	}
	return fw, nil
}

// Valid reports whether the framework is part of the closed set
func (f Framework) Valid() bool {
	switch f {
	case FrameworkVanilla, FrameworkReact, FrameworkVue, FrameworkSvelte:
		return true
	default:
		return false
	}
}

// String returns the identifier
func (f Framework) String() string {
	return string(f)
}

// DisplayName returns a human readable name
func (f Framework) DisplayName() string {
	switch f {
	case FrameworkVanilla:
		return "Vanilla JS"
	case FrameworkReact:
		return "React"
	case FrameworkVue:
		return "Vue"
	case FrameworkSvelte:
		return "Svelte"
	default:
		return string(f)
	}
}

// ComponentSuffix returns the single-file component suffix, if the framework has one
func (f Framework) ComponentSuffix() string {
	switch f {
	case FrameworkVue:
		return ".vue"
	case FrameworkSvelte:
		return ".svelte"
	default:
		return ""
	}
}

// ScriptSuffixes returns entry script suffixes in preference order
func (f Framework) ScriptSuffixes() []string {
	if f == FrameworkReact {
		return []string{".jsx", ".tsx", ".js"}
	}
	return []string{".js"}
}
