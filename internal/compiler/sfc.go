package compiler

import (
	"strings"

	"golang.org/x/net/html"
)

// sfcBlock is one top-level block of a single-file component
type sfcBlock struct {
	Content string
	Attrs   map[string]string
	Start   int // offset of the opening tag
	End     int // offset just past the closing tag
}

// Lang returns the block's lang attribute
func (b *sfcBlock) Lang() string {
	if b == nil {
		return ""
	}
	return strings.ToLower(b.Attrs["lang"])
}

func (b *sfcBlock) Has(attr string) bool {
	if b == nil {
		return false
	}
	_, ok := b.Attrs[attr]
	return ok
}

// sfcDescriptor holds the top-level blocks of a component
type sfcDescriptor struct {
	Template *sfcBlock
	Script   *sfcBlock
	Styles   []*sfcBlock
	// Markup is the source outside template, script and style blocks
	Markup string
}

// parseSFC splits a .vue or .svelte source into its top-level blocks using
// the HTML tokenizer. Nested template elements stay inside the outer block.
func parseSFC(src string) sfcDescriptor {
	var desc sfcDescriptor
	var markup strings.Builder

	z := html.NewTokenizer(strings.NewReader(src))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := offset
		raw := z.Raw()
		offset += len(raw)

		if tt != html.StartTagToken {
			markup.Write(raw)
			continue
		}
		name, hasAttr := z.TagName()
		tag := string(name)
		if tag != "template" && tag != "script" && tag != "style" {
			markup.Write(raw)
			continue
		}

		block := &sfcBlock{Attrs: tagAttrs(z, hasAttr), Start: start}
		bodyStart := offset
		bodyEnd, end := closeBlock(z, &offset, tag)
		block.Content = src[bodyStart:bodyEnd]
		block.End = end

		switch tag {
		case "template":
			if desc.Template == nil {
				desc.Template = block
			}
		case "script":
			if desc.Script == nil || block.Has("setup") {
				desc.Script = block
			}
		case "style":
			desc.Styles = append(desc.Styles, block)
		}
	}

	desc.Markup = strings.TrimSpace(markup.String())
	return desc
}

// closeBlock advances past the matching end tag, counting nested tags of the
// same name. It returns the content end and the block end offsets.
func closeBlock(z *html.Tokenizer, offset *int, tag string) (int, int) {
	depth := 1
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return *offset, *offset
		}
		start := *offset
		*offset += len(z.Raw())

		switch tt {
		case html.StartTagToken:
			if n, _ := z.TagName(); string(n) == tag {
				depth++
			}
		case html.EndTagToken:
			if n, _ := z.TagName(); string(n) == tag {
				depth--
				if depth == 0 {
					return start, *offset
				}
			}
		}
	}
}

func tagAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}
