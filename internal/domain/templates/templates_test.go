package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/pipeline"
	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Frameworks(), 4)
	assert.Len(t, c.List(""), 8)
	assert.Len(t, c.List(types.FrameworkReact), 2)

	tmpl, ok := c.Get("react-starter")
	require.True(t, ok)
	assert.Equal(t, types.FrameworkReact, tmpl.Framework)
	assert.Equal(t, []string{"App.jsx", "index.html", "main.jsx", "style.css"}, tmpl.Files.Names())

	_, ok = c.Get("angular-landing")
	assert.False(t, ok)
}

func TestForFramework(t *testing.T) {
	c := MustLoad()

	for _, fw := range types.Frameworks() {
		tmpl := c.ForFramework(fw)
		assert.Equal(t, fw, tmpl.Framework)
		assert.True(t, tmpl.Default)
	}

	assert.Equal(t, "vanilla-landing", c.ForFramework(types.Framework("elm")).ID)
}

// Every template resolves and compiles in process.
func TestTemplatesCompile(t *testing.T) {
	c := MustLoad()
	p := pipeline.New()

	for _, s := range c.List("") {
		t.Run(s.ID, func(t *testing.T) {
			tmpl, ok := c.Get(s.ID)
			require.True(t, ok)

			_, err := pipeline.Resolve(tmpl.Framework, tmpl.Files)
			require.NoError(t, err)

			outcome := p.Compile(context.Background(), types.CompileRequest{Framework: tmpl.Framework, Files: tmpl.Files})
			require.True(t, outcome.Success, "%+v", outcome.Error)
			assert.NotContains(t, outcome.Document, pipeline.StyleMarker)
		})
	}
}
