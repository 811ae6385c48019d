package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// Runtime holds the browser runtime script URLs added to documents that do
// not load them already
type Runtime struct {
	React    string
	ReactDOM string
	Babel    string
	Vue      string
}

// DefaultRuntime returns the public CDN builds
func DefaultRuntime() Runtime {
	return Runtime{
		React:    "https://unpkg.com/react@18/umd/react.development.js",
		ReactDOM: "https://unpkg.com/react-dom@18/umd/react-dom.development.js",
		Babel:    "https://unpkg.com/@babel/standalone/babel.min.js",
		Vue:      "https://unpkg.com/vue@3/dist/vue.global.js",
	}
}

// SyntaxChecker reports problems in plain scripts as warnings
type SyntaxChecker interface {
	Check(name, src string) []string
}

// Transformation is the in-process result handed to Assemble
type Transformation struct {
	Injection Injection
	Warnings  []string
}

// Transformer performs the cheap in-process transforms
type Transformer struct {
	runtime Runtime
	checker SyntaxChecker
}

// TransformerOption configures a Transformer
type TransformerOption func(*Transformer)

// WithRuntime overrides runtime URLs
func WithRuntime(rt Runtime) TransformerOption {
	return func(t *Transformer) { t.runtime = rt }
}

// WithChecker enables syntax pre-checks of plain scripts
func WithChecker(c SyntaxChecker) TransformerOption {
	return func(t *Transformer) { t.checker = c }
}

// NewTransformer creates a transformer
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := &Transformer{runtime: DefaultRuntime()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform derives the injection for sel. Only a missing selected file can
// fail; a failed JSX transform degrades to in-browser Babel.
func (t *Transformer) Transform(sel EntrySelection, set types.SourceSet) (Transformation, error) {
	markup, ok := set.Get(sel.Markup)
	if !ok {
		return Transformation{}, missingEntry(MarkupFile, "index.html is required")
	}

	var out Transformation
	if sel.Style != "" {
		rec, ok := set.Get(sel.Style)
		if !ok {
			return Transformation{}, missingEntry(sel.Style, "stylesheet not found")
		}
		out.Injection.Style = strPtr(rec.Content)
	}

	var err error
	switch {
	case sel.Framework == types.FrameworkReact:
		err = t.react(&out, sel, set, markup.Content)
	case sel.Component != "" && sel.Framework == types.FrameworkVue:
		err = t.vue(&out, sel, set, markup.Content)
	case sel.Component != "" && sel.Framework == types.FrameworkSvelte:
		err = t.svelte(&out, sel, set, markup.Content)
	default:
		err = t.plain(&out, sel, set)
	}
	if err != nil {
		return Transformation{}, err
	}
	return out, nil
}

func (t *Transformer) plain(out *Transformation, sel EntrySelection, set types.SourceSet) error {
	if sel.Script == "" {
		return nil
	}
	rec, ok := set.Get(sel.Script)
	if !ok {
		return missingEntry(sel.Script, "entry script not found")
	}
	out.Injection.Script = strPtr(rec.Content)
	out.Injection.ScriptSrc = sel.Script
	if t.checker != nil {
		out.Warnings = append(out.Warnings, t.checker.Check(rec.Name, rec.Content)...)
	}
	return nil
}

func (t *Transformer) react(out *Transformation, sel EntrySelection, set types.SourceSet, markup string) error {
	rec, ok := set.Get(sel.Script)
	if !ok {
		return missingEntry(sel.Script, "entry script not found")
	}
	out.Injection.ScriptSrc = sel.Script
	out.Injection.Runtime = t.runtime.Missing(types.FrameworkReact, markup)

	code, err := TransformJSX(rec.Name, rec.Content)
	if err != nil {
		out.Injection.Script = strPtr(rec.Content)
		out.Injection.ScriptType = "text/babel"
		if !loadsScript(markup, babelScript) && t.runtime.Babel != "" {
			out.Injection.Runtime = append(out.Injection.Runtime, t.runtime.Babel)
		}
		out.Warnings = append(out.Warnings, fmt.Sprintf("JSX transform failed, using in-browser Babel: %v", err))
		return nil
	}
	out.Injection.Script = strPtr(code)
	return nil
}

// Missing returns the runtime URLs fw needs that markup does not load yet
func (rt Runtime) Missing(fw types.Framework, markup string) []string {
	var urls []string
	switch fw {
	case types.FrameworkReact:
		if !loadsScript(markup, reactScript) && rt.React != "" {
			urls = append(urls, rt.React)
		}
		if !loadsScript(markup, reactDOMScript) && rt.ReactDOM != "" {
			urls = append(urls, rt.ReactDOM)
		}
	case types.FrameworkVue:
		if !loadsScript(markup, vueScript) && rt.Vue != "" {
			urls = append(urls, rt.Vue)
		}
	}
	return urls
}

func (t *Transformer) vue(out *Transformation, sel EntrySelection, set types.SourceSet, markup string) error {
	rec, ok := set.Get(sel.Component)
	if !ok {
		return missingEntry(sel.Component, "component not found")
	}
	blocks := extractBlocks(rec.Content)
	mountID := MountID(markup)

	script := blocks.Script
	if strings.Contains(script, "export default") {
		script = strings.Replace(script, "export default", "const App =", 1)
	} else {
		script = "const App = {};\n" + script
	}
	template, _ := json.Marshal(blocks.Template)

	var b strings.Builder
	b.WriteString(strings.TrimSpace(script))
	b.WriteString("\nApp.template = ")
	b.Write(template)
	b.WriteString(";\n")
	fmt.Fprintf(&b, "Vue.createApp(App).mount(%q);", "#"+mountID)

	out.Injection.Script = strPtr(b.String())
	out.Injection.ScriptSrc = t.componentTarget(sel)
	out.Injection.Runtime = t.runtime.Missing(types.FrameworkVue, markup)
	mergeComponentStyle(out, blocks.Style)
	if blocks.Scoped {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s: scoped styles are applied globally in the in-process preview", rec.Name))
	}
	return nil
}

func (t *Transformer) svelte(out *Transformation, sel EntrySelection, set types.SourceSet, markup string) error {
	rec, ok := set.Get(sel.Component)
	if !ok {
		return missingEntry(sel.Component, "component not found")
	}
	blocks := extractBlocks(rec.Content)

	out.Injection.Mount = strPtr(blocks.Markup)
	out.Injection.MountID = MountID(markup)
	out.Injection.Script = strPtr(blocks.Script)
	out.Injection.ScriptSrc = t.componentTarget(sel)
	mergeComponentStyle(out, blocks.Style)
	out.Warnings = append(out.Warnings, fmt.Sprintf("%s: rendered statically, reactivity is inactive without the compile service", rec.Name))
	return nil
}

// componentTarget is the script tag the component output replaces: the
// entry script when one exists, else a tag referencing the component itself
func (t *Transformer) componentTarget(sel EntrySelection) string {
	if sel.Script != "" {
		return sel.Script
	}
	return sel.Component
}

func mergeComponentStyle(out *Transformation, style string) {
	if style == "" {
		return
	}
	if out.Injection.Style == nil {
		out.Injection.Style = strPtr(style)
		return
	}
	out.Injection.Style = strPtr(*out.Injection.Style + "\n" + style)
}

// TransformJSX compiles JSX or TSX to plain script with React.createElement
func TransformJSX(name, src string) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:      loaderFor(name),
		JSXFactory:  "React.createElement",
		JSXFragment: "React.Fragment",
		Target:      api.ES2017,
		Sourcefile:  name,
		LogLevel:    api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return "", messageError(name, result.Errors[0])
	}
	return string(result.Code), nil
}

func loaderFor(name string) api.Loader {
	switch {
	case strings.HasSuffix(name, ".tsx"):
		return api.LoaderTSX
	case strings.HasSuffix(name, ".ts"):
		return api.LoaderTS
	default:
		return api.LoaderJSX
	}
}

func messageError(name string, msg api.Message) error {
	if msg.Location != nil {
		return fmt.Errorf("%s:%d:%d: %s", name, msg.Location.Line, msg.Location.Column, msg.Text)
	}
	return fmt.Errorf("%s: %s", name, msg.Text)
}

func strPtr(s string) *string {
	return &s
}
