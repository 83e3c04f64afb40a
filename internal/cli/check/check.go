// Package check implements the "check" command: directive and URL
// validation without any network activity.
package check

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/Hahihula/include-url-macro/internal/core/codegen"
	"github.com/Hahihula/include-url-macro/internal/core/directive"
	"github.com/Hahihula/include-url-macro/internal/core/manifest"
	"github.com/Hahihula/include-url-macro/internal/core/urlcheck"
)

// CheckCommand defines the structure for the "check" command.
var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validates embed directives and their URLs without fetching anything",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"C"},
			Usage:   "Package directory to scan for embed directives",
			Value:   ".",
		},
	},
	Action: func(cCtx *cli.Context) error {
		dir := cCtx.String("dir")

		pkg, diags, err := directive.Scan(dir, codegen.DefaultFileName)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error scanning %s: %v", dir, err), 1)
		}

		invs := pkg.Invocations

		manifestPath := filepath.Join(dir, manifest.ManifestName)
		if m, loadErr := manifest.Load(dir); loadErr == nil {
			minvs, invErr := m.Invocations(manifestPath)
			if invErr != nil {
				diags.Add(token.Position{Filename: manifestPath, Line: 1}, invErr)
			} else {
				invs = append(invs, minvs...)
			}
		} else if !os.IsNotExist(loadErr) {
			diags.Add(token.Position{Filename: manifestPath, Line: 1}, loadErr)
		}

		// Validation only. The fetcher is never invoked by this command.
		for _, inv := range invs {
			if _, urlErr := urlcheck.Validate(inv.URL); urlErr != nil {
				diags.Add(inv.Pos, urlErr)
			}
		}

		if len(diags) > 0 {
			for _, d := range diags {
				_, _ = fmt.Fprintln(os.Stderr, d)
			}
			return cli.Exit(fmt.Sprintf("Error: %d problem(s) found.", len(diags)), 1)
		}

		fmt.Printf("ok: %d embed(s) valid.\n", len(invs))
		return nil
	},
}
