package pipeline

import (
	"strings"
)

// Injection is the derived content spliced into index.html. Nil fields are
// left untouched.
type Injection struct {
	// Style replaces the stylesheet marker
	Style *string
	// Script replaces the script tag referencing ScriptSrc
	Script    *string
	ScriptSrc string
	// ScriptType sets the inline script type; empty keeps type="module"
	// from the replaced tag and drops any other type
	ScriptType string
	// Runtime script URLs inserted ahead of the inline script
	Runtime []string
	// Mount content is placed inside the element with MountID
	Mount   *string
	MountID string
}

// Assemble splices the injection into base. Absent markers leave base
// unchanged. Assemble is pure: equal inputs give equal output.
func Assemble(base string, inj Injection) string {
	doc := base

	if inj.Style != nil {
		doc = replaceFirst(doc, []string{StyleMarker, StylePlaceholder}, "<style>"+escapeRawText(*inj.Style, "style")+"</style>")
	}

	if inj.Mount != nil && *inj.Mount != "" && inj.MountID != "" {
		if tag, ok := FindElementByID(doc, inj.MountID); ok {
			doc = doc[:tag.End] + *inj.Mount + doc[tag.End:]
		}
	}

	if inj.Script != nil {
		doc = injectScript(doc, inj)
	}

	return doc
}

func injectScript(doc string, inj Injection) string {
	if inj.ScriptSrc != "" {
		if tag, ok := FindScriptTag(doc, inj.ScriptSrc); ok {
			block := scriptBlock(inj, tag.Attrs["type"])
			return doc[:tag.Start] + block + doc[tag.End:]
		}
	}
	if idx := strings.Index(doc, ScriptPlaceholder); idx >= 0 {
		return doc[:idx] + scriptBlock(inj, "") + doc[idx+len(ScriptPlaceholder):]
	}
	return doc
}

func scriptBlock(inj Injection, originalType string) string {
	var b strings.Builder
	for _, src := range inj.Runtime {
		b.WriteString(`<script src="`)
		b.WriteString(src)
		b.WriteString(`"></script>`)
		b.WriteString("\n")
	}

	scriptType := inj.ScriptType
	if scriptType == "" && originalType == "module" {
		scriptType = "module"
	}
	if scriptType == "" {
		b.WriteString("<script>")
	} else {
		b.WriteString(`<script type="`)
		b.WriteString(scriptType)
		b.WriteString(`">`)
	}
	b.WriteString(escapeRawText(*inj.Script, "script"))
	b.WriteString("</script>")
	return b.String()
}

func replaceFirst(doc string, markers []string, replacement string) string {
	for _, marker := range markers {
		if idx := strings.Index(doc, marker); idx >= 0 {
			return doc[:idx] + replacement + doc[idx+len(marker):]
		}
	}
	return doc
}

// escapeRawText keeps inlined content from closing its own element early
func escapeRawText(content, element string) string {
	closing := "</" + element
	if !strings.Contains(strings.ToLower(content), closing) {
		return content
	}
	var b strings.Builder
	lower := strings.ToLower(content)
	last := 0
	for {
		idx := strings.Index(lower[last:], closing)
		if idx < 0 {
			break
		}
		idx += last
		b.WriteString(content[last:idx])
		b.WriteString(`<\/`)
		last = idx + 2
	}
	b.WriteString(content[last:])
	return b.String()
}
