package pipeline

import (
	"strings"
)

// textualBlocks is the result of best-effort textual extraction of a
// single-file component. It is a bounded fallback for simple components,
// not a parser: nested or attribute-heavy blocks are not understood, and a
// missing block is an empty string rather than an error. Components that
// need real compilation are routed to the compile service by the classifier.
type textualBlocks struct {
	Template string
	Script   string
	Style    string
	Scoped   bool
	Markup   string // source with script and style blocks removed
}

func extractBlocks(src string) textualBlocks {
	var blocks textualBlocks

	// The outermost template closes at the last </template>.
	if open, body := openBlock(src, "template"); open >= 0 {
		if end := strings.LastIndex(src, "</template>"); end >= body {
			blocks.Template = strings.TrimSpace(src[body:end])
		}
	}

	rest := src
	if s, e, content, ok := findBlock(rest, "script"); ok {
		blocks.Script = strings.TrimSpace(content)
		rest = rest[:s] + rest[e:]
	}
	if s, e, content, ok := findBlock(rest, "style"); ok {
		blocks.Style = strings.TrimSpace(content)
		blocks.Scoped = strings.Contains(rest[s:s+strings.Index(rest[s:], ">")], "scoped")
		rest = rest[:s] + rest[e:]
	}
	blocks.Markup = strings.TrimSpace(rest)

	return blocks
}

// openBlock returns the offset of "<name" and the offset just past its ">"
func openBlock(src, name string) (int, int) {
	start := indexTag(src, name)
	if start < 0 {
		return -1, -1
	}
	gt := strings.IndexByte(src[start:], '>')
	if gt < 0 {
		return -1, -1
	}
	return start, start + gt + 1
}

// findBlock locates the first <name ...>...</name> block
func findBlock(src, name string) (start, end int, content string, ok bool) {
	start, body := openBlock(src, name)
	if start < 0 {
		return 0, 0, "", false
	}
	closing := "</" + name + ">"
	rel := strings.Index(src[body:], closing)
	if rel < 0 {
		return start, len(src), src[body:], true
	}
	return start, body + rel + len(closing), src[body : body+rel], true
}

// indexTag finds "<name" followed by '>' or whitespace
func indexTag(src, name string) int {
	needle := "<" + name
	from := 0
	for {
		idx := strings.Index(src[from:], needle)
		if idx < 0 {
			return -1
		}
		idx += from
		next := idx + len(needle)
		if next < len(src) && (src[next] == '>' || src[next] == ' ' || src[next] == '\n' || src[next] == '\t' || src[next] == '\r') {
			return idx
		}
		from = next
	}
}
