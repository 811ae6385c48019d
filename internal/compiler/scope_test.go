package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeCSS(t *testing.T) {
	const attr = "data-v-1234abcd"
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single", ".a { color: red; }", ".a[data-v-1234abcd] { color: red; }"},
		{"list", "h1, .b p { x: y }", "h1[data-v-1234abcd], .b p[data-v-1234abcd] { x: y }"},
		{"child combinator", "ul > li{x:y}", "ul > li[data-v-1234abcd]{x:y}"},
		{"pseudo class", "a:hover { x: y }", "a[data-v-1234abcd]:hover { x: y }"},
		{"pseudo element", ".c::before { x: y }", ".c[data-v-1234abcd]::before { x: y }"},
		{"deep", ".a :deep(.b) { x: y }", ".a[data-v-1234abcd] .b { x: y }"},
		{
			"media",
			"@media (max-width: 600px) { .a { x: y } }",
			"@media (max-width: 600px) { .a[data-v-1234abcd] { x: y } }",
		},
		{
			"keyframes untouched",
			"@keyframes spin { from { a: b } to { a: c } } .d { x: y }",
			"@keyframes spin { from { a: b } to { a: c } } .d[data-v-1234abcd] { x: y }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scopeCSS(tt.in, attr))
		})
	}
}

func TestScopeTemplate(t *testing.T) {
	in := `<div class="box"><img src="a.png" /><template v-if="x"><span @click="n > 1">{{ n }}</span></template></div>`
	want := `<div class="box" data-v-x><img src="a.png" data-v-x/><template v-if="x"><span @click="n > 1" data-v-x>{{ n }}</span></template></div>`
	assert.Equal(t, want, scopeTemplate(in, "data-v-x"))
}
