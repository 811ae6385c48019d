package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptTags(t *testing.T) {
	doc := `<p>x</p><script src="a.js"></script><script>var s = "<b>";</script><script src="b.js"/>`

	tags := ScriptTags(doc)
	require.Len(t, tags, 3)

	assert.Equal(t, `<script src="a.js"></script>`, doc[tags[0].Start:tags[0].End])
	assert.Equal(t, "a.js", tags[0].Attrs["src"])
	assert.Equal(t, `<script>var s = "<b>";</script>`, doc[tags[1].Start:tags[1].End])
	assert.Equal(t, `<script src="b.js"/>`, doc[tags[2].Start:tags[2].End])

	assert.Equal(t, []string{"a.js", "b.js"}, ScriptSources(doc))
}

func TestScriptTagsUnterminated(t *testing.T) {
	doc := `<body><script src="a.js">`
	tags := ScriptTags(doc)
	require.Len(t, tags, 1)
	assert.Equal(t, len(doc), tags[0].End)
}

func TestFindScriptTag(t *testing.T) {
	doc := `<script src="/app.js"></script>`
	tag, ok := FindScriptTag(doc, "app.js")
	require.True(t, ok)
	assert.Equal(t, 0, tag.Start)

	_, ok = FindScriptTag(doc, "other.js")
	assert.False(t, ok)
}

func TestFindElementByID(t *testing.T) {
	doc := `<body><main><div class="x" id="root">old</div></main></body>`
	tag, ok := FindElementByID(doc, "root")
	require.True(t, ok)
	assert.Equal(t, `<div class="x" id="root">`, doc[tag.Start:tag.End])
	assert.Equal(t, "div", tag.Name)

	_, ok = FindElementByID(doc, "missing")
	assert.False(t, ok)
}

func TestMountID(t *testing.T) {
	assert.Equal(t, "app", MountID(`<div id="root"></div><div id="app"></div>`))
	assert.Equal(t, "root", MountID(`<div id="root"></div>`))
	assert.Equal(t, "stage", MountID(`<body><section id="stage"></section></body>`))
	assert.Equal(t, DefaultMountID, MountID(`<p>nothing</p>`))
}

func TestLoadsScript(t *testing.T) {
	doc := `<script src="https://unpkg.com/react@18/umd/react.development.js"></script>`
	assert.True(t, loadsScript(doc, reactScript))
	assert.False(t, loadsScript(doc, reactDOMScript))
	assert.False(t, loadsScript(`<script src="https://unpkg.com/react-dom@18/umd/react-dom.development.js"></script>`, reactScript))
	assert.True(t, loadsScript(`<script src="https://unpkg.com/vue@3/dist/vue.global.js"></script>`, vueScript))
}

func TestExtractBlocks(t *testing.T) {
	blocks := extractBlocks(`<template><div><template v-if="a">x</template></div></template>
<script lang="ts">export default {}</script>
<style scoped>p{}</style>`)

	assert.Equal(t, `<div><template v-if="a">x</template></div>`, blocks.Template)
	assert.Equal(t, "export default {}", blocks.Script)
	assert.Equal(t, "p{}", blocks.Style)
	assert.True(t, blocks.Scoped)

	empty := extractBlocks("<p>only markup</p>")
	assert.Empty(t, empty.Template)
	assert.Empty(t, empty.Script)
	assert.Empty(t, empty.Style)
	assert.Equal(t, "<p>only markup</p>", empty.Markup)
}
