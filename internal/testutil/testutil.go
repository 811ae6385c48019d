// Package testutil provides testing utilities and helpers for backend tests.
package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Sandbox/backend/internal/shared/types"
)

// ErrRemoteDown is returned by NewFailingRemote
var ErrRemoteDown = errors.New("connection refused")

// MockRemote is a mock implementation of pipeline.RemoteCompiler for testing.
type MockRemote struct {
	mock.Mock
}

// CompileRemote mocks the CompileRemote method.
func (m *MockRemote) CompileRemote(ctx context.Context, fw types.Framework, set types.SourceSet) (types.CompileOutcome, error) {
	args := m.Called(ctx, fw, set)
	return args.Get(0).(types.CompileOutcome), args.Error(1)
}

// NewFailingRemote creates a mock remote that always fails with a transport error.
func NewFailingRemote(t *testing.T) *MockRemote {
	t.Helper()
	m := new(MockRemote)
	m.On("CompileRemote", mock.Anything, mock.Anything, mock.Anything).
		Return(types.CompileOutcome{}, ErrRemoteDown)
	return m
}

// NewSucceedingRemote creates a mock remote that returns document for every call.
func NewSucceedingRemote(t *testing.T, document string) *MockRemote {
	t.Helper()
	m := new(MockRemote)
	m.On("CompileRemote", mock.Anything, mock.Anything, mock.Anything).
		Return(types.Succeeded(document), nil)
	return m
}

// Dedent strips common indentation from multi-line fixtures.
func Dedent(s string) string {
	return dedent.Dedent(s)
}

// Files builds a SourceSet from name/content pairs.
func Files(t *testing.T, pairs ...string) types.SourceSet {
	t.Helper()
	require.True(t, len(pairs)%2 == 0, "Files needs name/content pairs")

	records := make([]types.FileRecord, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		records = append(records, types.NewFile(pairs[i], Dedent(pairs[i+1])))
	}
	set, err := types.NewSourceSet(records...)
	require.NoError(t, err)
	return set
}

// VanillaIndex is an index.html with the literal style and script markers.
const VanillaIndex = `<!DOCTYPE html>
<html>
<head>
<title>Preview</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<div id="app"></div>
<script src="script.js"></script>
</body>
</html>`

// ReactIndex is the starter React index.html.
const ReactIndex = `<!DOCTYPE html>
<html>
<head>
<link rel="stylesheet" href="style.css">
</head>
<body>
<div id="root"></div>
<script type="text/babel" src="App.jsx"></script>
</body>
</html>`

// VueIndex is an index.html mounting a component into #app.
const VueIndex = `<!DOCTYPE html>
<html>
<head>
<link rel="stylesheet" href="style.css">
</head>
<body>
<div id="app"></div>
<script type="module" src="main.js"></script>
</body>
</html>`

// NewVanillaSet returns the canonical vanilla project.
func NewVanillaSet(t *testing.T) types.SourceSet {
	t.Helper()
	return Files(t,
		"index.html", VanillaIndex,
		"style.css", "body{color:red}",
		"script.js", "console.log(1)",
	)
}
