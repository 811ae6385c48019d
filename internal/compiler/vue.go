package compiler

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/utils"
)

const sfcVar = "__sfc__"

var (
	exportDefault = regexp.MustCompile(`(?m)^\s*export\s+default\s+`)
	importsVueSFC = regexp.MustCompile(`from\s+['"][^'"]+\.vue['"]`)
)

// compileVue bundles a Vue project. Components are compiled to modules that
// carry their template as a runtime-compiled string option.
func (s *Service) compileVue(set types.SourceSet) (types.CompileOutcome, error) {
	sel, err := pipeline.Resolve(types.FrameworkVue, set)
	if err != nil {
		return types.CompileOutcome{}, err
	}
	markup, _ := set.Get(sel.Markup)

	b := &bundle{set: set}
	b.load = func(name string) (string, api.Loader, bool, error) {
		if path.Ext(name) != ".vue" {
			return "", api.LoaderNone, false, nil
		}
		rec, ok := set.Get(name)
		if !ok {
			return "", api.LoaderNone, false, nil
		}
		b.markLoaded(name)
		module, css, loader := compileSFC(rec)
		if css != "" {
			b.addStyle(css)
		}
		return module, loader, true, nil
	}

	// A script that imports components mounts the app itself; otherwise a
	// generated entry mounts the component.
	target := sel.Script
	switch {
	case sel.Script != "" && s.scriptMountsApp(set, sel.Script):
		b.entry = sel.Script
	case sel.Component != "":
		b.entry = virtualEntry
		b.virtual = fmt.Sprintf("import { createApp } from \"vue\";\nimport App from %q;\ncreateApp(App).mount(%q);\n",
			"./"+sel.Component, "#"+pipeline.MountID(markup.Content))
		if target == "" {
			target = sel.Component
		}
	default:
		b.entry = sel.Script
	}

	out, err := b.run()
	if err != nil {
		return types.CompileOutcome{}, err
	}

	inj := pipeline.Injection{
		Script:    &out.JS,
		ScriptSrc: target,
		Runtime:   s.runtime.Missing(types.FrameworkVue, markup.Content),
	}
	styleFile := sel.Style
	if out.Loaded[styleFile] {
		styleFile = ""
	}
	inj.Style = mergeStyles(set, styleFile, out.CSS)

	return types.Succeeded(pipeline.Assemble(markup.Content, inj), out.Warnings...), nil
}

func (s *Service) scriptMountsApp(set types.SourceSet, script string) bool {
	rec, ok := set.Get(script)
	return ok && importsVueSFC.MatchString(rec.Content)
}

// compileSFC turns a component into an ES module and its (scoped) CSS
func compileSFC(rec types.FileRecord) (string, string, api.Loader) {
	desc := parseSFC(rec.Content)
	scopeID := "data-v-" + utils.ShortHash(utils.DefaultHasher().HashString(rec.Name))

	scoped := false
	var css []string
	for _, style := range desc.Styles {
		content := strings.TrimSpace(style.Content)
		if content == "" {
			continue
		}
		if style.Has("scoped") {
			scoped = true
			content = scopeCSS(content, scopeID)
		}
		css = append(css, content)
	}

	var b strings.Builder
	script := ""
	if desc.Script != nil {
		script = strings.TrimSpace(desc.Script.Content)
	}
	if loc := exportDefault.FindStringIndex(script); loc != nil {
		b.WriteString(script[:loc[0]])
		b.WriteString("\nconst " + sfcVar + " = ")
		b.WriteString(script[loc[1]:])
		b.WriteString(";")
	} else {
		b.WriteString(script)
		b.WriteString("\nconst " + sfcVar + " = {};")
	}
	b.WriteString("\n")

	if desc.Template != nil {
		template := strings.TrimSpace(desc.Template.Content)
		if scoped {
			template = scopeTemplate(template, scopeID)
		}
		literal, _ := json.Marshal(template)
		fmt.Fprintf(&b, "%s.template = %s;\n", sfcVar, literal)
	}
	fmt.Fprintf(&b, "export default %s;\n", sfcVar)

	loader := api.LoaderJS
	if lang := desc.Script.Lang(); lang == "ts" || lang == "tsx" {
		loader = api.LoaderTS
		if lang == "tsx" {
			loader = api.LoaderTSX
		}
	}
	return b.String(), strings.Join(css, "\n"), loader
}
