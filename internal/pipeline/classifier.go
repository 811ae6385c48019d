package pipeline

import (
	"strings"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// MaxInlineLines is the longest React entry handled in process
const MaxInlineLines = 100

// NeedsFullCompile is a coarse textual heuristic deciding whether an entry
// source needs the authoritative compiler. It is not a parser; false
// positives only cost a remote round trip and false negatives degrade to the
// in-process transform.
func NeedsFullCompile(src string, fw types.Framework) bool {
	switch fw {
	case types.FrameworkReact:
		return strings.Contains(src, "interface ") ||
			strings.Contains(src, "type ") ||
			strings.Contains(src, "import ") ||
			lineCount(src) > MaxInlineLines
	case types.FrameworkVue:
		return strings.Contains(src, "<template>") || strings.Contains(src, "<style scoped>")
	case types.FrameworkSvelte:
		return strings.Contains(src, "<script>") && strings.Contains(src, "<style>")
	default:
		return false
	}
}

func lineCount(src string) int {
	if src == "" {
		return 0
	}
	return strings.Count(src, "\n") + 1
}
