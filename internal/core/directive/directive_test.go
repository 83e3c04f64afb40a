// Package directive_test contains tests for the directive scanner.
package directive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hahihula/include-url-macro/internal/core/directive"
	"github.com/Hahihula/include-url-macro/internal/core/resolver"
)

// writeSource writes a Go source file into dir.
func writeSource(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
}

func TestScan_CollectsAllForms(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "embeds.go", `package demo

//urlembed:text Greeting https://example.com/hello.txt
//urlembed:json PkgInfo https://example.com/package.json
//urlembed:json -type User CurrentUser https://example.com/user.json

type User struct {
	ID   int    `+"`json:\"id\"`"+`
	Name string `+"`json:\"name\"`"+`
}
`)

	pkg, diags, err := directive.Scan(dir, "urlembed_gen.go")
	require.NoError(t, err)
	require.Empty(t, diags, "well-formed directives should produce no diagnostics")
	assert.Equal(t, "demo", pkg.Name)
	require.Len(t, pkg.Invocations, 3)

	greeting := pkg.Invocations[0]
	assert.Equal(t, "Greeting", greeting.Name)
	assert.Equal(t, resolver.FormText, greeting.Form)
	assert.Equal(t, "https://example.com/hello.txt", greeting.URL)
	assert.Equal(t, 3, greeting.Pos.Line, "position anchors to the directive comment")
	assert.Contains(t, greeting.Pos.Filename, "embeds.go")

	pkgInfo := pkg.Invocations[1]
	assert.Equal(t, resolver.FormJSON, pkgInfo.Form)
	assert.Nil(t, pkgInfo.Shape)

	typed := pkg.Invocations[2]
	assert.Equal(t, "User", typed.TypeName)
	require.NotNil(t, typed.Shape, "typed directives resolve their shape at scan time")
	assert.Len(t, typed.Shape.Fields, 2)
}

func TestScan_MalformedDirectives(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "bad.go", `package demo

//urlembed:frob X https://example.com/a
//urlembed:text OnlyName
//urlembed:text not-an-ident https://example.com/b
//urlembed:text -type User X https://example.com/c
//urlembed:json -type Missing X https://example.com/d
`)

	pkg, diags, err := directive.Scan(dir, "urlembed_gen.go")
	require.NoError(t, err)
	assert.Empty(t, pkg.Invocations, "no malformed directive becomes an invocation")
	require.Len(t, diags, 5, "every malformed directive gets its own diagnostic")

	assert.Contains(t, diags[0].String(), "unknown form")
	assert.Contains(t, diags[0].String(), "bad.go:3", "diagnostics carry the directive position")
	assert.Contains(t, diags[1].String(), "malformed directive")
	assert.Contains(t, diags[2].String(), "not a valid Go identifier")
	assert.Contains(t, diags[3].String(), "-type is only valid for the json form")
	assert.Contains(t, diags[4].String(), "not a struct declared in package")
}

func TestScan_UnicodeNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "embeds.go", `package demo

//urlembed:text Grüße https://example.com/de.txt
`)

	pkg, diags, err := directive.Scan(dir, "urlembed_gen.go")
	require.NoError(t, err)
	require.Empty(t, diags, "any valid Go identifier is a valid embed name")
	require.Len(t, pkg.Invocations, 1)
	assert.Equal(t, "Grüße", pkg.Invocations[0].Name)
}

func TestScan_DuplicateNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "a.go", `package demo

//urlembed:text Greeting https://example.com/a.txt
`)
	writeSource(t, dir, "b.go", `package demo

//urlembed:text Greeting https://example.com/b.txt
`)

	pkg, diags, err := directive.Scan(dir, "urlembed_gen.go")
	require.NoError(t, err)
	require.Len(t, pkg.Invocations, 1, "only the first declaration survives")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].String(), "duplicate embed name")
}

func TestScan_SkipsTestsAndGeneratedOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "embeds.go", `package demo

//urlembed:text Greeting https://example.com/hello.txt
`)
	writeSource(t, dir, "embeds_test.go", `package demo

//urlembed:text FromTest https://example.com/test.txt
`)
	writeSource(t, dir, "urlembed_gen.go", `package demo

//urlembed:text FromGenerated https://example.com/gen.txt
`)

	pkg, diags, err := directive.Scan(dir, "urlembed_gen.go")
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, pkg.Invocations, 1, "test files and previous generator output are not scanned")
	assert.Equal(t, "Greeting", pkg.Invocations[0].Name)
}

func TestScan_NoGoFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	pkg, diags, err := directive.Scan(dir, "urlembed_gen.go")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Empty(t, pkg.Invocations)
	assert.Empty(t, pkg.Name)
}

func TestShapeFor_UnknownType(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeSource(t, dir, "types.go", `package demo

type User struct {
	Name string `+"`json:\"name\"`"+`
}
`)

	pkg, _, err := directive.Scan(dir, "urlembed_gen.go")
	require.NoError(t, err)

	_, err = pkg.ShapeFor("Nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a struct declared in package demo")

	desc, err := pkg.ShapeFor("User")
	require.NoError(t, err)
	assert.Equal(t, "User", desc.TypeName)
}
