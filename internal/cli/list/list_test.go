// Package list contains tests for the "list" command.
package list

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Hahihula/include-url-macro/internal/core/lockfile"
)

func runListCommand(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{
		Name:           "urlembed-test",
		Commands:       []*cli.Command{ListCommand},
		ExitErrHandler: func(context *cli.Context, err error) {},
	}
	cliArgs := append([]string{"urlembed-test", "list"}, args...)
	return app.Run(cliArgs)
}

func TestList_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, runListCommand(t, "--dir", dir), "an empty directory lists nothing and succeeds")
}

func TestList_DeclaredAndLocked(t *testing.T) {
	dir := t.TempDir()
	src := `package demo

//urlembed:text Greeting https://example.com/hello.txt
//urlembed:text Pending https://example.com/pending.txt
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "embeds.go"), []byte(src), 0644))

	lf := lockfile.New()
	lf.AddOrUpdate("Greeting", "https://example.com/hello.txt", "text", "sha256:abc")
	lf.AddOrUpdate("Gone", "https://example.com/gone.txt", "text", "sha256:def")
	require.NoError(t, lockfile.Save(dir, lf))

	assert.NoError(t, runListCommand(t, "--dir", dir))
}

func TestList_CorruptLockfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "embeds.go"), []byte("package demo\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, lockfile.LockfileName), []byte("not = toml ["), 0644))

	err := runListCommand(t, "--dir", dir)
	require.Error(t, err)
}
