package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validDefinition = `
session: demo
components:
  - id: checkout
    kind: container
    disabled: true
    channels:
      - name: sync
        kind: property-sync
        mode: always-allow
    children:
      - id: pay
        kind: button
        channels:
          - name: click
            kind: dom-event
  - id: sidebar
    kind: container
`

func TestRunValidate_Valid(t *testing.T) {
	path := writeDefinition(t, validDefinition)

	var out bytes.Buffer
	err := RunValidate(&out, path)
	assert.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRunValidate_ReportsAllProblems(t *testing.T) {
	path := writeDefinition(t, `
components:
  - id: a
    channels:
      - name: ping
        kind: telepathy
  - id: a
`)

	var out bytes.Buffer
	err := RunValidate(&out, path)
	require.Error(t, err)

	assert.Contains(t, out.String(), "unknown channel kind")
	assert.Contains(t, out.String(), "duplicate id")
}

func TestRunValidate_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := RunValidate(&out, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not load definition")
}

func TestRunInspect_Tree(t *testing.T) {
	path := writeDefinition(t, validDefinition)

	var out bytes.Buffer
	require.NoError(t, RunInspect(&out, InspectOptions{Path: path}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "checkout (container)")
	assert.Contains(t, lines[1], "pay (button)")
	assert.Contains(t, lines[1], "[click]")
	assert.Contains(t, lines[2], "sidebar (container)")
}

func TestRunInspect_Mermaid(t *testing.T) {
	path := writeDefinition(t, validDefinition)

	var out bytes.Buffer
	require.NoError(t, RunInspect(&out, InspectOptions{Path: path, Mermaid: true}))

	assert.True(t, strings.HasPrefix(out.String(), "graph TD"))
	assert.Contains(t, out.String(), "checkout --> pay")
	assert.Contains(t, out.String(), "class pay disabled;")
}
