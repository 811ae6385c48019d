package compiler

import (
	"strings"

	"golang.org/x/net/html"
)

// Elements that never receive the scope attribute
var unscopedTags = map[string]bool{"template": true, "slot": true, "component": true}

// scopeTemplate adds attr to every element start tag in a template
func scopeTemplate(template, attr string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(template))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return b.String()
		}
		raw := string(z.Raw())
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			b.WriteString(raw)
			continue
		}
		name, _ := z.TagName()
		if unscopedTags[string(name)] {
			b.WriteString(raw)
			continue
		}
		cut := len(raw) - 1
		if tt == html.SelfClosingTagToken && strings.HasSuffix(raw, "/>") {
			cut = len(raw) - 2
		}
		b.WriteString(strings.TrimRight(raw[:cut], " \t\n"))
		b.WriteString(" ")
		b.WriteString(attr)
		b.WriteString(raw[cut:])
	}
}

// scopeCSS appends [attr] to the last compound of every selector. Rules in
// @media and @supports are scoped; @keyframes and @font-face are left alone.
func scopeCSS(css, attr string) string {
	var b strings.Builder
	suffix := "[" + attr + "]"
	i := 0

	for i < len(css) {
		open := strings.IndexByte(css[i:], '{')
		if open < 0 {
			b.WriteString(css[i:])
			break
		}
		open += i
		prelude := css[i:open]
		trimmed := strings.TrimSpace(stripComments(prelude))

		// A prelude may start after a closing brace of a nested block.
		if close := strings.LastIndexByte(prelude, '}'); close >= 0 {
			b.WriteString(prelude[:close+1])
			i += close + 1
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "@media"), strings.HasPrefix(trimmed, "@supports"):
			b.WriteString(prelude)
			b.WriteByte('{')
			i = open + 1
		case strings.HasPrefix(trimmed, "@"):
			end := matchBrace(css, open)
			b.WriteString(css[i:end])
			i = end
		default:
			b.WriteString(scopeSelectors(prelude, suffix))
			end := matchBrace(css, open)
			b.WriteString(css[open:end])
			i = end
		}
	}
	return b.String()
}

// scopeSelectors rewrites a comma separated selector list
func scopeSelectors(prelude, suffix string) string {
	lead := prelude[:len(prelude)-len(strings.TrimLeft(prelude, " \t\r\n"))]
	trail := prelude[len(strings.TrimRight(prelude, " \t\r\n")):]
	parts := strings.Split(strings.TrimSpace(prelude), ",")
	for i, sel := range parts {
		parts[i] = scopeSelector(strings.TrimSpace(sel), suffix)
	}
	return lead + strings.Join(parts, ", ") + trail
}

func scopeSelector(sel, suffix string) string {
	if sel == "" {
		return sel
	}
	// Deep selectors stop scoping at the combinator.
	if idx := strings.Index(sel, "::v-deep"); idx >= 0 {
		return strings.TrimSpace(scopeSelector(strings.TrimSpace(sel[:idx]), suffix) + " " + strings.TrimSpace(sel[idx+len("::v-deep"):]))
	}
	if idx := strings.Index(sel, ":deep("); idx >= 0 {
		inner := strings.TrimSuffix(sel[idx+len(":deep("):], ")")
		head := strings.TrimSpace(sel[:idx])
		if head == "" {
			return suffix + " " + inner
		}
		return scopeSelector(head, suffix) + " " + inner
	}

	// Insert before a trailing pseudo-element or pseudo-class of the last compound.
	last := strings.LastIndexAny(sel, " >+~")
	compound := sel[last+1:]
	insert := len(compound)
	if p := strings.Index(compound, ":"); p >= 0 {
		insert = p
	}
	return sel[:last+1] + compound[:insert] + suffix + compound[insert:]
}

// matchBrace returns the offset just past the brace closing the one at open
func matchBrace(css string, open int) int {
	depth := 0
	for i := open; i < len(css); i++ {
		switch css[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(css)
}

func stripComments(s string) string {
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			return s
		}
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return s[:start]
		}
		s = s[:start] + s[start+2+end+2:]
	}
}
