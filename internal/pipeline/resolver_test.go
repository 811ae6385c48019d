package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
	"github.com/GriffinCanCode/Sandbox/backend/internal/testutil"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		fw        types.Framework
		files     []string
		want      EntrySelection
		wantFile  string
		wantError bool
	}{
		{
			name:  "vanilla prefers script.js",
			fw:    types.FrameworkVanilla,
			files: []string{"index.html", "<p></p>", "a.js", "", "script.js", "", "a.css", "", "style.css", ""},
			want:  EntrySelection{Framework: types.FrameworkVanilla, Markup: "index.html", Style: "style.css", Script: "script.js"},
		},
		{
			name:  "vanilla without script",
			fw:    types.FrameworkVanilla,
			files: []string{"index.html", "<p></p>", "theme.css", ""},
			want:  EntrySelection{Framework: types.FrameworkVanilla, Markup: "index.html", Style: "theme.css"},
		},
		{
			name:  "react suffix preference then lexical",
			fw:    types.FrameworkReact,
			files: []string{"index.html", "<p></p>", "index.js", "", "main.jsx", "", "App.jsx", "", "Card.tsx", ""},
			want:  EntrySelection{Framework: types.FrameworkReact, Markup: "index.html", Script: "App.jsx"},
		},
		{
			name:  "react tsx before js",
			fw:    types.FrameworkReact,
			files: []string{"index.html", "<p></p>", "index.js", "", "Card.tsx", ""},
			want:  EntrySelection{Framework: types.FrameworkReact, Markup: "index.html", Script: "Card.tsx"},
		},
		{
			name:  "react referenced file wins",
			fw:    types.FrameworkReact,
			files: []string{"index.html", `<script type="module" src="./main.jsx"></script>`, "App.jsx", "", "main.jsx", ""},
			want:  EntrySelection{Framework: types.FrameworkReact, Markup: "index.html", Script: "main.jsx"},
		},
		{
			name:      "react without entry",
			fw:        types.FrameworkReact,
			files:     []string{"index.html", "<p></p>", "style.css", ""},
			wantFile:  "*.jsx",
			wantError: true,
		},
		{
			name:  "vue component and script",
			fw:    types.FrameworkVue,
			files: []string{"index.html", `<script src="main.js"></script>`, "main.js", "", "util.js", "", "App.vue", ""},
			want:  EntrySelection{Framework: types.FrameworkVue, Markup: "index.html", Script: "main.js", Component: "App.vue"},
		},
		{
			name:  "vue script only",
			fw:    types.FrameworkVue,
			files: []string{"index.html", "<p></p>", "app.js", ""},
			want:  EntrySelection{Framework: types.FrameworkVue, Markup: "index.html", Script: "app.js"},
		},
		{
			name:      "vue without entry",
			fw:        types.FrameworkVue,
			files:     []string{"index.html", "<p></p>", "App.jsx", ""},
			wantFile:  "*.vue",
			wantError: true,
		},
		{
			name:  "svelte component only",
			fw:    types.FrameworkSvelte,
			files: []string{"index.html", "<p></p>", "Counter.svelte", "", "App.svelte", ""},
			want:  EntrySelection{Framework: types.FrameworkSvelte, Markup: "index.html", Component: "App.svelte"},
		},
		{
			name:      "missing index",
			fw:        types.FrameworkSvelte,
			files:     []string{"App.svelte", ""},
			wantFile:  "index.html",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Resolve(tt.fw, testutil.Files(t, tt.files...))
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMissingEntry))
				var perr *Error
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, tt.wantFile, perr.File)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel)
		})
	}
}

func TestResolveUnsupported(t *testing.T) {
	_, err := Resolve(types.Framework("solid"), testutil.NewVanillaSet(t))
	assert.ErrorIs(t, err, ErrUnsupportedFramework)
	assert.NotErrorIs(t, err, ErrMissingEntry)
}

func TestEntrySelectionEntry(t *testing.T) {
	assert.Equal(t, "App.vue", EntrySelection{Script: "main.js", Component: "App.vue"}.Entry())
	assert.Equal(t, "main.js", EntrySelection{Script: "main.js"}.Entry())
}
