package compiler

import (
	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// compileReact bundles the React entry with its relative imports. CSS
// imported from scripts joins the project stylesheet.
func (s *Service) compileReact(set types.SourceSet) (types.CompileOutcome, error) {
	sel, err := pipeline.Resolve(types.FrameworkReact, set)
	if err != nil {
		return types.CompileOutcome{}, err
	}

	b := &bundle{set: set, entry: sel.Script}
	out, err := b.run()
	if err != nil {
		return types.CompileOutcome{}, err
	}

	markup, _ := set.Get(sel.Markup)
	inj := pipeline.Injection{
		Script:    &out.JS,
		ScriptSrc: sel.Script,
		Runtime:   s.runtime.Missing(types.FrameworkReact, markup.Content),
	}
	styleFile := sel.Style
	if out.Loaded[styleFile] {
		styleFile = ""
	}
	inj.Style = mergeStyles(set, styleFile, out.CSS)

	return types.Succeeded(pipeline.Assemble(markup.Content, inj), out.Warnings...), nil
}

// mergeStyles joins the project stylesheet with bundled CSS
func mergeStyles(set types.SourceSet, styleFile, bundled string) *string {
	var css string
	if rec, ok := set.Get(styleFile); ok {
		css = rec.Content
	}
	if bundled != "" {
		if css != "" {
			css += "\n"
		}
		css += bundled
	}
	if css == "" {
		return nil
	}
	return &css
}
