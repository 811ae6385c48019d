package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", []byte("<div id=\"root\"></div>"))
	writeFile(t, dir, "src/App.jsx", []byte("export default () => <p/>;"))
	writeFile(t, dir, "style.css", []byte("body { margin: 0 }"))
	writeFile(t, dir, "logo.png", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0})
	writeFile(t, dir, "node_modules/react/index.js", []byte("module.exports = {}"))
	writeFile(t, dir, ".env", []byte("SECRET=1"))

	res, err := Load(context.Background(), dir, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"index.html", "src/App.jsx", "style.css"}, res.Files.Names())
	assert.Equal(t, []string{"logo.png"}, res.Skipped)

	rec, ok := res.Files.Get("src/App.jsx")
	require.True(t, ok)
	assert.Equal(t, types.KindJSX, rec.Kind)
}

func TestLoadInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", []byte("<p>hi</p>"))
	writeFile(t, dir, "notes.md", []byte("# notes"))

	opts := DefaultOptions()
	opts.Include = []string{"*.html", "**/*.css"}
	res, err := Load(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html"}, res.Files.Names())
}

func TestLoadOversized(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", []byte("<p>0123456789</p>"))

	opts := DefaultOptions()
	opts.MaxFileBytes = 4
	res, err := Load(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Files.Len())
	assert.Equal(t, []string{"index.html"}, res.Skipped)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"), DefaultOptions())
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = Load(context.Background(), file, DefaultOptions())
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	set := types.SourceSetFromMap(map[string]string{
		"index.html":          "<div id=\"app\"></div>",
		"src/App.vue":         "<template><p>hi</p></template>",
		"src/components/a.js": "export const a = 1;",
	})

	dir := t.TempDir()
	require.NoError(t, Write(dir, set))

	res, err := Load(context.Background(), dir, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, set.Contents(), res.Files.Contents())
}

func TestWriteRejectsTraversal(t *testing.T) {
	set := types.SourceSetFromMap(map[string]string{"../escape.js": "x"})
	assert.Error(t, Write(t.TempDir(), set))
}

func TestIsText(t *testing.T) {
	assert.True(t, IsText([]byte("const a = 1;")))
	assert.True(t, IsText([]byte("<html></html>")))
	assert.False(t, IsText([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}))
}

func TestDecodeLatin1(t *testing.T) {
	// "café au lait, crème brûlée" in ISO-8859-1
	data := []byte("caf\xe9 au lait, cr\xe8me br\xfbl\xe9e, d\xe9j\xe0 vu, na\xefve fa\xe7ade")
	out, ok := decode(data)
	require.True(t, ok)
	assert.Contains(t, out, "café")
}
