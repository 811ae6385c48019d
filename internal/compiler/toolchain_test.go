package compiler

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/testutil"
)

func TestParseToolchains(t *testing.T) {
	data := []byte(`
[toolchains.svelte]
command = "npx"
args = ["vite", "build"]
install = ["npm", "install"]
timeout = "90s"

[toolchains.react]
command = "make"
output = "public/index.html"
`)
	tc, err := ParseToolchains(data)
	require.NoError(t, err)

	svelte, ok := tc.For(types.FrameworkSvelte)
	require.True(t, ok)
	assert.Equal(t, "npx", svelte.Command)
	assert.Equal(t, []string{"vite", "build"}, svelte.Args)
	assert.Equal(t, 90*time.Second, svelte.Timeout)
	assert.Equal(t, defaultOutputPattern, svelte.Output)

	react, ok := tc.For(types.FrameworkReact)
	require.True(t, ok)
	assert.Equal(t, defaultToolchainTimeout, react.Timeout)

	assert.Equal(t, []types.Framework{types.FrameworkReact, types.FrameworkSvelte}, tc.Frameworks())

	_, ok = tc.For(types.FrameworkVue)
	assert.False(t, ok)
}

func TestParseToolchainsErrors(t *testing.T) {
	tests := map[string]string{
		"bad toml":    "[toolchains.svelte",
		"unknown":     "[toolchains.angular]\ncommand = \"ng\"",
		"no command":  "[toolchains.svelte]\nargs = []",
		"bad timeout": "[toolchains.svelte]\ncommand = \"x\"\ntimeout = \"soon\"",
		"bad output":  "[toolchains.svelte]\ncommand = \"x\"\noutput = \"dist/[\"",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToolchains([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestNilToolchains(t *testing.T) {
	var tc *Toolchains
	_, ok := tc.For(types.FrameworkSvelte)
	assert.False(t, ok)
	assert.Nil(t, tc.Frameworks())
}

func TestInlineAssets(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "app.js"), []byte("console.log('</script>')"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "app.css"), []byte("p{color:red}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "logo.png"), []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, 0o644))

	doc := `<head><link rel="stylesheet" href="/assets/app.css"><link rel="icon" href="/logo.png"></head>` +
		`<body><img src="./logo.png" alt="x"><script type="module" crossorigin src="/assets/app.js"></script>` +
		`<script src="https://cdn.test/lib.js"></script></body>`

	out := inlineAssets(doc, root)

	assert.Contains(t, out, "<style>p{color:red}</style>")
	assert.Contains(t, out, `<link rel="icon" href="/logo.png">`)
	assert.Contains(t, out, `<img src="data:image/png;base64,`)
	assert.Contains(t, out, `<script type="module">console.log('<\/script>')</script>`)
	assert.Contains(t, out, `<script src="https://cdn.test/lib.js"></script>`)
}

func TestReadLocalStaysInRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"), []byte("a"), 0o644))

	data, ok := readLocal(root, "../../a.js?v=1")
	require.True(t, ok)
	assert.Equal(t, "a", string(data))

	_, ok = readLocal(root, "data:text/plain,hi")
	assert.False(t, ok)
}

func TestToolchainRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	tc := Toolchain{
		Command: "sh",
		Args:    []string{"-c", "mkdir -p dist/assets && cp index.html dist/index.html && printf 'window.built = true' > dist/assets/app.js"},
		Output:  defaultOutputPattern,
		Timeout: 10 * time.Second,
	}
	set := testutil.Files(t,
		"index.html", `<div id="app"></div><script type="module" src="/assets/app.js"></script>`,
		"App.svelte", "<p>hi</p>",
	)

	doc, err := tc.Run(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, `<div id="app"></div><script type="module">window.built = true</script>`, doc)
}

func TestToolchainRunFailures(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	set := testutil.Files(t, "index.html", "<p></p>")

	failing := Toolchain{Command: "sh", Args: []string{"-c", "echo broken build >&2; exit 3"}, Output: defaultOutputPattern, Timeout: 10 * time.Second}
	_, err := failing.Run(context.Background(), set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken build")

	noOutput := Toolchain{Command: "sh", Args: []string{"-c", "true"}, Output: defaultOutputPattern, Timeout: 10 * time.Second}
	_, err = noOutput.Run(context.Background(), set)
	assert.ErrorContains(t, err, "no file matching")
}

func TestServiceUsesToolchain(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	tc, err := ParseToolchains([]byte(`
[toolchains.svelte]
command = "sh"
args = ["-c", "mkdir -p dist && cp index.html dist/index.html"]
timeout = "10s"
`))
	require.NoError(t, err)

	set := testutil.Files(t, "index.html", `<main>built</main>`, "App.svelte", "<p>hi</p>")
	outcome := NewService(WithToolchains(tc)).Compile(context.Background(), types.FrameworkSvelte, set)
	require.True(t, outcome.Success, "%+v", outcome.Error)
	assert.Equal(t, "<main>built</main>", outcome.Document)
}
