package compiler

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

const (
	nsSource = "sourceset"
	nsShim   = "shim"

	// virtualEntry is a generated entry module that is never part of the set
	virtualEntry = "__sandbox_entry__.js"
)

// Browser globals that stand in for framework packages
var shims = map[string]string{
	"react":             "module.exports = window.React;",
	"react-dom":         "module.exports = window.ReactDOM;",
	"react-dom/client":  "module.exports = window.ReactDOM;",
	"react/jsx-runtime": jsxRuntimeShim,
	"vue":               "module.exports = window.Vue;",
}

const jsxRuntimeShim = `var R = window.React;
function jsx(type, props, key) {
  var p = Object.assign({}, props);
  if (key !== undefined) p.key = key;
  return R.createElement(type, p);
}
module.exports = { jsx: jsx, jsxs: jsx, Fragment: R.Fragment };`

// Extensions tried, in order, for extensionless relative imports
var resolveExtensions = []string{"", ".tsx", ".ts", ".jsx", ".js", ".vue", ".css", ".json", "/index.tsx", "/index.ts", "/index.jsx", "/index.js"}

// loader returns source text for a module; ok=false defers to the set
type loader func(name string) (contents string, l api.Loader, ok bool, err error)

// bundle is one esbuild build over a source set
type bundle struct {
	set     types.SourceSet
	entry   string
	virtual string // contents of virtualEntry, when used
	load    loader

	mu     sync.Mutex
	styles []string // CSS produced by loaders outside esbuild
	loaded map[string]bool
}

// bundleOutput is the result of a successful build
type bundleOutput struct {
	JS       string
	CSS      string
	Warnings []string
	Loaded   map[string]bool // project files pulled into the bundle
}

func (b *bundle) addStyle(css string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.styles = append(b.styles, css)
}

func (b *bundle) markLoaded(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded == nil {
		b.loaded = make(map[string]bool)
	}
	b.loaded[name] = true
}

func (b *bundle) run() (bundleOutput, error) {
	result := api.Build(api.BuildOptions{
		EntryPoints: []string{b.entry},
		Bundle:      true,
		Write:       false,
		Outdir:      "out",
		Format:      api.FormatIIFE,
		Platform:    api.PlatformBrowser,
		Target:      api.ES2017,
		JSX:         api.JSXTransform,
		JSXFactory:  "React.createElement",
		JSXFragment: "React.Fragment",
		LogLevel:    api.LogLevelSilent,
		Plugins:     []api.Plugin{b.plugin()},
		Define:      map[string]string{"process.env.NODE_ENV": `"development"`},
	})
	if len(result.Errors) > 0 {
		return bundleOutput{}, locate(result.Errors[0])
	}

	var out bundleOutput
	for _, f := range result.OutputFiles {
		switch path.Ext(f.Path) {
		case ".js":
			out.JS = string(f.Contents)
		case ".css":
			out.CSS = string(f.Contents)
		}
	}
	b.mu.Lock()
	extra := strings.Join(b.styles, "\n")
	out.Loaded = b.loaded
	b.mu.Unlock()
	if extra != "" {
		out.CSS = strings.TrimSpace(out.CSS + "\n" + extra)
	}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, locate(w).Error())
	}
	return out, nil
}

func (b *bundle) plugin() api.Plugin {
	return api.Plugin{
		Name: "sourceset",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, b.resolve)
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: nsShim}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				contents := shims[args.Path]
				return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
			})
			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: nsSource}, b.loadFile)
		},
	}
}

func (b *bundle) resolve(args api.OnResolveArgs) (api.OnResolveResult, error) {
	if args.Kind == api.ResolveEntryPoint {
		return api.OnResolveResult{Path: args.Path, Namespace: nsSource}, nil
	}
	if _, ok := shims[args.Path]; ok {
		return api.OnResolveResult{Path: args.Path, Namespace: nsShim}, nil
	}
	if !isRelative(args.Path) {
		return api.OnResolveResult{}, fmt.Errorf("%w %q: only relative imports and %s are available", ErrUnresolvedImport, args.Path, shimList())
	}

	base := path.Join(path.Dir(args.Importer), args.Path)
	if strings.HasPrefix(args.Path, "/") {
		base = strings.TrimPrefix(path.Clean(args.Path), "/")
	}
	for _, ext := range resolveExtensions {
		if b.set.Has(base + ext) {
			return api.OnResolveResult{Path: base + ext, Namespace: nsSource}, nil
		}
	}
	return api.OnResolveResult{}, fmt.Errorf("%w %q: no such file in project", ErrUnresolvedImport, args.Path)
}

func (b *bundle) loadFile(args api.OnLoadArgs) (api.OnLoadResult, error) {
	if args.Path == virtualEntry && b.virtual != "" {
		contents := b.virtual
		return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
	}
	if b.load != nil {
		contents, l, ok, err := b.load(args.Path)
		if err != nil {
			return api.OnLoadResult{}, err
		}
		if ok {
			return api.OnLoadResult{Contents: &contents, Loader: l}, nil
		}
	}
	rec, ok := b.set.Get(args.Path)
	if !ok {
		return api.OnLoadResult{}, fmt.Errorf("%s not found", args.Path)
	}
	b.markLoaded(rec.Name)
	contents := rec.Content
	return api.OnLoadResult{Contents: &contents, Loader: loaderFor(rec.Name)}, nil
}

func loaderFor(name string) api.Loader {
	switch path.Ext(name) {
	case ".tsx":
		return api.LoaderTSX
	case ".ts":
		return api.LoaderTS
	case ".jsx":
		return api.LoaderJSX
	case ".css":
		return api.LoaderCSS
	case ".json":
		return api.LoaderJSON
	case ".svg", ".txt", ".html":
		return api.LoaderText
	default:
		// Plain .js in React projects routinely contains JSX.
		return api.LoaderJSX
	}
}

func isRelative(p string) bool {
	return strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") || strings.HasPrefix(p, "/")
}

func shimList() string {
	return "react, react-dom and vue"
}

// locate converts an esbuild message into a BuildError
func locate(msg api.Message) *BuildError {
	e := &BuildError{File: "unknown", Message: msg.Text}
	if msg.Location != nil {
		e.File = strings.TrimPrefix(msg.Location.File, nsSource+":")
		e.Line = msg.Location.Line
		e.Column = msg.Location.Column
	}
	return e
}
