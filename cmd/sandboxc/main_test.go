package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/infrastructure/logging"
)

func testApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &App{Logger: logging.NewNop(), Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

func TestGrammarParses(t *testing.T) {
	var cmd Command
	parser, err := kong.New(&cmd, kong.Name("sandboxc"), kong.Exit(func(int) {}))
	require.NoError(t, err)

	dir := t.TempDir()
	ctx, err := parser.Parse([]string{"build", "-f", "react", dir, "-o", "-", "--no-local"})
	require.NoError(t, err)
	assert.Equal(t, "build <dir>", ctx.Command())
	assert.Equal(t, "react", cmd.Build.Framework)
	assert.Equal(t, "-", cmd.Build.Output)
	assert.False(t, cmd.Build.Local)

	_, err = parser.Parse([]string{"build", "-f", "cobol", dir})
	assert.Error(t, err)
}

func TestInitThenBuild(t *testing.T) {
	for _, fw := range []string{"vanilla", "react", "vue"} {
		t.Run(fw, func(t *testing.T) {
			app, stdout, _ := testApp()
			dir := filepath.Join(t.TempDir(), "project")

			require.NoError(t, (&InitCommand{Framework: fw, Dir: dir}).Run(app))
			_, err := os.Stat(filepath.Join(dir, "index.html"))
			require.NoError(t, err)

			build := &BuildCommand{
				Framework: fw,
				Dir:       dir,
				Output:    "-",
				Local:     true,
				Timeout:   time.Minute,
			}
			require.NoError(t, build.Run(app))
			assert.Contains(t, stdout.String(), "<html")
		})
	}
}

func TestInitRefusesNonEmptyDir(t *testing.T) {
	app, _, _ := testApp()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	err := (&InitCommand{Framework: "vanilla", Dir: dir}).Run(app)
	assert.ErrorContains(t, err, "not empty")

	require.NoError(t, (&InitCommand{Template: "react-starter", Dir: dir, Force: true}).Run(app))
	_, err = os.Stat(filepath.Join(dir, "App.jsx"))
	assert.NoError(t, err)

	err = (&InitCommand{Template: "nope", Dir: t.TempDir()}).Run(app)
	assert.ErrorContains(t, err, "unknown template")
}

func TestBuildWritesFileAndReportsFailures(t *testing.T) {
	app, _, _ := testApp()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "script.js"), []byte("console.log(1)"), 0o644))

	err := (&BuildCommand{Framework: "vanilla", Dir: dir, Output: "-", Timeout: time.Minute}).Run(app)
	assert.ErrorContains(t, err, "index.html")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte(`<html><body><script src="script.js"></script></body></html>`), 0o644))
	out := filepath.Join(t.TempDir(), "preview.html")
	require.NoError(t, (&BuildCommand{Framework: "vanilla", Dir: dir, Output: out, Timeout: time.Minute}).Run(app))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "console.log(1)")
	assert.NotContains(t, string(data), `src="script.js"`)
}

func TestTemplatesList(t *testing.T) {
	app, stdout, _ := testApp()
	require.NoError(t, (&TemplatesCommand{Framework: "svelte"}).Run(app))
	assert.Contains(t, stdout.String(), "svelte-landing")
	assert.NotContains(t, stdout.String(), "react-landing")

	assert.Error(t, (&TemplatesCommand{Framework: "cobol"}).Run(app))
}
