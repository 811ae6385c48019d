package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// Literal injection markers. Existing index.html templates depend on these
// exact bytes.
const (
	StyleMarker = `<link rel="stylesheet" href="style.css">`
	MarkupFile  = "index.html"
)

// Versioned placeholder markers, honoured when the literal markers are absent
const (
	MarkerVersion     = 2
	StylePlaceholder  = "{{STYLE}}"
	ScriptPlaceholder = "{{SCRIPT}}"
)

// Span is a byte range [Start, End) of a document
type Span struct {
	Start int
	End   int
}

// Tag is a located element start tag, with its full element span for
// raw-text elements such as script
type Tag struct {
	Span
	Name  string
	Attrs map[string]string
}

// ScriptTags returns every script element in document order. Spans cover the
// literal bytes from "<script" to the matching "</script>".
func ScriptTags(doc string) []Tag {
	var tags []Tag
	z := html.NewTokenizer(strings.NewReader(doc))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tags
		}
		start := offset
		offset += len(z.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "script" {
			continue
		}
		tag := Tag{Name: "script", Attrs: readAttrs(z, hasAttr)}
		if tt == html.StartTagToken {
			offset = skipToEnd(z, offset, "script")
		}
		tag.Span = Span{Start: start, End: offset}
		tags = append(tags, tag)
	}
}

// FindScriptTag locates the script element whose src names file
func FindScriptTag(doc, file string) (Tag, bool) {
	for _, tag := range ScriptTags(doc) {
		if src, ok := tag.Attrs["src"]; ok && SameFile(src, file) {
			return tag, true
		}
	}
	return Tag{}, false
}

// ScriptSources lists the src attributes of all script elements
func ScriptSources(doc string) []string {
	var srcs []string
	for _, tag := range ScriptTags(doc) {
		if src, ok := tag.Attrs["src"]; ok {
			srcs = append(srcs, src)
		}
	}
	return srcs
}

// FindElementByID locates the start tag of the element with the given id.
// The span covers the start tag only.
func FindElementByID(doc, id string) (Tag, bool) {
	z := html.NewTokenizer(strings.NewReader(doc))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return Tag{}, false
		}
		start := offset
		offset += len(z.Raw())

		if tt != html.StartTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		tagName := string(name)
		attrs := readAttrs(z, hasAttr)
		if attrs["id"] == id {
			return Tag{Span: Span{Start: start, End: offset}, Name: tagName, Attrs: attrs}, true
		}
	}
}

// SameFile compares a script src with a source file name, ignoring a
// leading "./" or "/"
func SameFile(src, file string) bool {
	return normalizeRef(src) == normalizeRef(file)
}

func normalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimPrefix(ref, "./")
	return strings.TrimPrefix(ref, "/")
}

func readAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}

// skipToEnd advances past the end tag of a raw-text element and returns the
// new offset. An unterminated element runs to the end of the document.
func skipToEnd(z *html.Tokenizer, offset int, name string) int {
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return offset
		}
		offset += len(z.Raw())
		if tt == html.EndTagToken {
			if n, _ := z.TagName(); string(n) == name {
				return offset
			}
		}
	}
}

// StartTags returns the start tags named name in document order. Spans cover
// the start tag only.
func StartTags(doc, name string) []Tag {
	var tags []Tag
	z := html.NewTokenizer(strings.NewReader(doc))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return tags
		}
		start := offset
		offset += len(z.Raw())

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tagName, hasAttr := z.TagName()
		if string(tagName) != name {
			continue
		}
		tags = append(tags, Tag{Span: Span{Start: start, End: offset}, Name: name, Attrs: readAttrs(z, hasAttr)})
	}
}
