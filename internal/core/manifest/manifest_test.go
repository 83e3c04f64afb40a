// Package manifest_test contains tests for the manifest package.
package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hahihula/include-url-macro/internal/core/manifest"
	"github.com/Hahihula/include-url-macro/internal/core/resolver"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, manifest.ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "demo"

[embeds.Greeting]
url = "https://example.com/hello.txt"
format = "text"

[embeds.CurrentUser]
url = "https://example.com/user.json"
format = "json"
type = "User"
`)

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	require.NotNil(t, m.Package)
	assert.Equal(t, "demo", m.Package.Name)
	require.Len(t, m.Embeds, 2)
	assert.Equal(t, "User", m.Embeds["CurrentUser"].Type)
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()
	_, err := manifest.Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err), "a missing manifest surfaces as a not-exist error")
}

func TestInvocations_SortedAndTyped(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[embeds.Zeta]
url = "https://example.com/z.txt"
format = "text"

[embeds.Alpha]
url = "https://example.com/a.json"
format = "json"
type = "Alpha"
`)

	m, err := manifest.Load(dir)
	require.NoError(t, err)

	invs, err := m.Invocations(path)
	require.NoError(t, err)
	require.Len(t, invs, 2)

	assert.Equal(t, "Alpha", invs[0].Name, "entries are ordered by name for determinism")
	assert.Equal(t, resolver.FormJSON, invs[0].Form)
	assert.Equal(t, "Alpha", invs[0].TypeName)
	assert.Nil(t, invs[0].Shape, "shape resolution is the caller's job")
	assert.Equal(t, path, invs[0].Pos.Filename, "manifest entries anchor to the manifest file")

	assert.Equal(t, "Zeta", invs[1].Name)
	assert.Equal(t, resolver.FormText, invs[1].Form)
}

func TestInvocations_DefaultsToText(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[embeds.Plain]
url = "https://example.com/p.txt"
`)

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	invs, err := m.Invocations(path)
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.Equal(t, resolver.FormText, invs[0].Form)
}

func TestInvocations_Invalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "unknown format",
			content: `
[embeds.X]
url = "https://example.com/x"
format = "xml"
`,
			wantErr: "unknown format",
		},
		{
			name: "type on text embed",
			content: `
[embeds.X]
url = "https://example.com/x"
format = "text"
type = "User"
`,
			wantErr: "type is only valid",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			path := writeManifest(t, dir, tt.content)

			m, err := manifest.Load(dir)
			require.NoError(t, err)

			_, err = m.Invocations(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteAndReload(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	m := &manifest.Manifest{
		Package: &manifest.PackageInfo{Name: "demo"},
		Embeds: map[string]manifest.Embed{
			"Greeting": {URL: "https://example.com/hello.txt", Format: "text"},
		},
	}
	require.NoError(t, manifest.Write(dir, m))

	reloaded, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, m.Package.Name, reloaded.Package.Name)
	assert.Equal(t, m.Embeds, reloaded.Embeds)
}
