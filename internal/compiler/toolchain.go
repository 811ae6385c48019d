package compiler

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/workspace"
)

const (
	defaultToolchainTimeout = 2 * time.Minute
	defaultOutputPattern    = "dist/**/index.html"
	maxToolOutput           = 4096
)

// Toolchain is an external build command for one framework
type Toolchain struct {
	Command string        `toml:"command"`
	Args    []string      `toml:"args"`
	Install []string      `toml:"install"`
	Output  string        `toml:"output"`
	Env     []string      `toml:"env"`
	Timeout time.Duration `toml:"-"`
	RawTime string        `toml:"timeout"`
}

// toolchainFile is the on-disk TOML layout:
//
//	[toolchains.svelte]
//	command = "npx"
//	args = ["vite", "build"]
//	install = ["npm", "install", "--no-audit"]
//	output = "dist/**/index.html"
//	timeout = "90s"
type toolchainFile struct {
	Toolchains map[string]Toolchain `toml:"toolchains"`
}

// Toolchains maps frameworks to external build commands
type Toolchains struct {
	byFramework map[types.Framework]Toolchain
}

// LoadToolchains reads a TOML toolchain file
func LoadToolchains(file string) (*Toolchains, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read toolchain file: %w", err)
	}
	return ParseToolchains(data)
}

// ParseToolchains decodes TOML toolchain definitions
func ParseToolchains(data []byte) (*Toolchains, error) {
	var file toolchainFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse toolchain file: %w", err)
	}

	tc := &Toolchains{byFramework: make(map[types.Framework]Toolchain)}
	for name, def := range file.Toolchains {
		fw, err := types.ParseFramework(name)
		if err != nil {
			return nil, fmt.Errorf("toolchain %q: %w", name, err)
		}
		if def.Command == "" {
			return nil, fmt.Errorf("toolchain %q: command is required", name)
		}
		def.Timeout = defaultToolchainTimeout
		if def.RawTime != "" {
			d, err := time.ParseDuration(def.RawTime)
			if err != nil {
				return nil, fmt.Errorf("toolchain %q: timeout: %w", name, err)
			}
			def.Timeout = d
		}
		if def.Output == "" {
			def.Output = defaultOutputPattern
		}
		if !doublestar.ValidatePattern(def.Output) {
			return nil, fmt.Errorf("toolchain %q: invalid output pattern %q", name, def.Output)
		}
		tc.byFramework[fw] = def
	}
	return tc, nil
}

// For returns the toolchain configured for fw
func (t *Toolchains) For(fw types.Framework) (Toolchain, bool) {
	if t == nil {
		return Toolchain{}, false
	}
	def, ok := t.byFramework[fw]
	return def, ok
}

// Frameworks lists the frameworks with a configured toolchain
func (t *Toolchains) Frameworks() []types.Framework {
	if t == nil {
		return nil
	}
	out := make([]types.Framework, 0, len(t.byFramework))
	for fw := range t.byFramework {
		out = append(out, fw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Run writes set to a temporary workspace, builds it and returns the built
// document with its local assets inlined
func (tc Toolchain) Run(ctx context.Context, set types.SourceSet) (string, error) {
	dir, err := os.MkdirTemp("", "sandbox-build-*")
	if err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := workspace.Write(dir, set); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, tc.Timeout)
	defer cancel()

	if len(tc.Install) > 0 {
		if err := tc.exec(ctx, dir, tc.Install[0], tc.Install[1:]); err != nil {
			return "", fmt.Errorf("install: %w", err)
		}
	}
	if err := tc.exec(ctx, dir, tc.Command, tc.Args); err != nil {
		return "", err
	}

	index, err := findOutput(ctx, dir, tc.Output)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(index)
	if err != nil {
		return "", fmt.Errorf("read build output: %w", err)
	}
	return inlineAssets(string(data), filepath.Dir(index)), nil
}

func (tc Toolchain) exec(ctx context.Context, dir, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), tc.Env...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s failed: %w: %s", name, err, tail(output.String(), maxToolOutput))
	}
	return nil
}

// findOutput locates the built document under dir
func findOutput(ctx context.Context, dir, pattern string) (string, error) {
	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); ok {
			mu.Lock()
			matches = append(matches, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan build output: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("build produced no file matching %q", pattern)
	}
	// Shallowest match wins.
	sort.Slice(matches, func(i, j int) bool {
		di, dj := strings.Count(matches[i], string(filepath.Separator)), strings.Count(matches[j], string(filepath.Separator))
		if di != dj {
			return di < dj
		}
		return matches[i] < matches[j]
	})
	return matches[0], nil
}

type edit struct {
	span pipeline.Span
	text string
}

// inlineAssets replaces local script, stylesheet and image references in doc
// with their contents, so the document previews without a file server
func inlineAssets(doc, root string) string {
	var edits []edit

	for _, tag := range pipeline.ScriptTags(doc) {
		src, ok := tag.Attrs["src"]
		if !ok {
			continue
		}
		data, ok := readLocal(root, src)
		if !ok {
			continue
		}
		open := "<script>"
		if tag.Attrs["type"] == "module" {
			open = `<script type="module">`
		}
		body := strings.ReplaceAll(string(data), "</script", `<\/script`)
		edits = append(edits, edit{span: tag.Span, text: open + body + "</script>"})
	}

	for _, tag := range pipeline.StartTags(doc, "link") {
		if !strings.EqualFold(tag.Attrs["rel"], "stylesheet") {
			continue
		}
		data, ok := readLocal(root, tag.Attrs["href"])
		if !ok {
			continue
		}
		edits = append(edits, edit{span: tag.Span, text: "<style>" + string(data) + "</style>"})
	}

	for _, tag := range pipeline.StartTags(doc, "img") {
		src := tag.Attrs["src"]
		data, ok := readLocal(root, src)
		if !ok {
			continue
		}
		raw := doc[tag.Start:tag.End]
		uri := "data:" + mimetype.Detect(data).String() + ";base64," + base64.StdEncoding.EncodeToString(data)
		edits = append(edits, edit{span: tag.Span, text: strings.Replace(raw, src, uri, 1)})
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].span.Start > edits[j].span.Start })
	for _, e := range edits {
		doc = doc[:e.span.Start] + e.text + doc[e.span.End:]
	}
	return doc
}

// readLocal reads a document-relative asset that stays inside root
func readLocal(root, ref string) ([]byte, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, "//") || strings.HasPrefix(ref, "data:") {
		return nil, false
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	clean := strings.TrimPrefix(path.Clean("/"+ref), "/")
	if clean == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, false
	}
	return data, true
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
