package pipeline

import (
	"fmt"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// DefaultStyleFile and DefaultScriptFile are the conventional vanilla names
const (
	DefaultStyleFile  = "style.css"
	DefaultScriptFile = "script.js"
)

// EntrySelection names the files a framework build starts from. Empty
// names mean the role is not filled.
type EntrySelection struct {
	Framework types.Framework
	Markup    string
	Style     string
	Script    string
	Component string
}

// Entry returns the file the classifier inspects: the component when there
// is one, otherwise the script
func (s EntrySelection) Entry() string {
	if s.Component != "" {
		return s.Component
	}
	return s.Script
}

// Resolve selects entry files for a framework. It never mutates set.
//
// Script ties break deterministically: a file referenced by a script tag in
// index.html wins (document order), then the framework's suffix preference,
// then lexical order of names.
func Resolve(fw types.Framework, set types.SourceSet) (EntrySelection, error) {
	if !fw.Valid() {
		return EntrySelection{}, &Error{
			Kind:    KindUnsupportedFramework,
			File:    UnknownFile,
			Message: fmt.Sprintf("unsupported framework: %s", fw),
		}
	}

	markup, ok := set.Get(MarkupFile)
	if !ok {
		return EntrySelection{}, missingEntry(MarkupFile, "index.html is required")
	}

	sel := EntrySelection{Framework: fw, Markup: MarkupFile}
	if set.Has(DefaultStyleFile) {
		sel.Style = DefaultStyleFile
	} else if name, ok := set.First(".css"); ok {
		sel.Style = name
	}

	suffixes := fw.ScriptSuffixes()
	sel.Script = referencedScript(markup.Content, set, suffixes)

	switch fw {
	case types.FrameworkVanilla:
		if sel.Script == "" && set.Has(DefaultScriptFile) {
			sel.Script = DefaultScriptFile
		}
		if sel.Script == "" {
			sel.Script, _ = set.First(suffixes...)
		}

	case types.FrameworkReact:
		if sel.Script == "" {
			sel.Script, _ = set.First(suffixes...)
		}
		if sel.Script == "" {
			return EntrySelection{}, missingEntry("*.jsx", "no React entry file (.jsx, .tsx or .js) found")
		}

	case types.FrameworkVue, types.FrameworkSvelte:
		suffix := fw.ComponentSuffix()
		sel.Component, _ = set.First(suffix)
		if sel.Script == "" {
			sel.Script, _ = set.First(suffixes...)
		}
		if sel.Component == "" && sel.Script == "" {
			return EntrySelection{}, missingEntry("*"+suffix, fmt.Sprintf("no %s component (%s) or .js entry found", fw.DisplayName(), suffix))
		}
	}

	return sel, nil
}

// referencedScript returns the first script src in index.html that names a
// file in set with an accepted suffix
func referencedScript(markup string, set types.SourceSet, suffixes []string) string {
	for _, src := range ScriptSources(markup) {
		name := normalizeRef(src)
		rec, ok := set.Get(name)
		if !ok {
			continue
		}
		for _, suffix := range suffixes {
			if rec.HasSuffix(suffix) {
				return name
			}
		}
	}
	return ""
}
