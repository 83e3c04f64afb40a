// Package gen implements the "gen" command: the build-time step that
// resolves every embed declared in a package and writes the generated
// constants file.
package gen

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/Hahihula/include-url-macro/internal/core/codegen"
	"github.com/Hahihula/include-url-macro/internal/core/diag"
	"github.com/Hahihula/include-url-macro/internal/core/directive"
	"github.com/Hahihula/include-url-macro/internal/core/lockfile"
	"github.com/Hahihula/include-url-macro/internal/core/manifest"
	"github.com/Hahihula/include-url-macro/internal/core/resolver"
)

// GenCommand defines the structure for the "gen" command.
var GenCommand = &cli.Command{
	Name:  "gen",
	Usage: "Resolves embed directives and writes the generated Go file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"C"},
			Usage:   "Package directory to scan for embed directives",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Name of the generated file, relative to the package directory",
			Value:   codegen.DefaultFileName,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
	},
	Action: func(cCtx *cli.Context) error {
		dir := cCtx.String("dir")
		output := cCtx.String("output")
		verbose := cCtx.Bool("verbose")

		pkg, diags, err := directive.Scan(dir, output)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error scanning %s: %v", dir, err), 1)
		}

		invs := pkg.Invocations
		invs = append(invs, manifestInvocations(dir, pkg, &diags)...)

		if len(invs) == 0 && len(diags) == 0 {
			fmt.Printf("No embed directives found in %s.\n", dir)
			return nil
		}

		if pkg.Name == "" {
			return cli.Exit(fmt.Sprintf("Error: no Go source files found in %s to attach generated code to.", dir), 1)
		}

		// Each invocation runs its own independent pipeline; one failure
		// never stops the siblings, so a single run reports every problem.
		var resolved []*resolver.Resolved
		for _, inv := range invs {
			if verbose {
				fmt.Printf("Resolving %s (%s) from %s...\n", inv.Name, inv.Form, inv.URL)
			}
			res, resolveErr := resolver.Resolve(nil, inv)
			if resolveErr != nil {
				diags.Add(inv.Pos, resolveErr)
				continue
			}
			if verbose {
				fmt.Printf("  resolved, content hash %s\n", res.Sum)
			}
			resolved = append(resolved, res)
		}

		if len(diags) > 0 {
			for _, d := range diags {
				_, _ = fmt.Fprintln(os.Stderr, d)
			}
			return cli.Exit(fmt.Sprintf("Error: %d of %d embed(s) failed; no code was generated.", len(diags), len(invs)), 1)
		}

		src, err := codegen.Render(pkg.Name, resolved)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error rendering generated code: %v", err), 1)
		}

		outPath := filepath.Join(dir, output)
		if err := os.WriteFile(outPath, src, 0644); err != nil {
			return cli.Exit(fmt.Sprintf("Error writing %s: %v", outPath, err), 1)
		}

		lf, err := lockfile.Load(dir)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error loading %s: %v", lockfile.LockfileName, err), 1)
		}
		for _, res := range resolved {
			lf.AddOrUpdate(res.Name, res.URL, res.Form.String(), res.Sum)
		}
		if err := lockfile.Save(dir, lf); err != nil {
			return cli.Exit(fmt.Sprintf("Error saving %s: %v", lockfile.LockfileName, err), 1)
		}

		fmt.Printf("Successfully generated %s with %d embed(s).\nUpdated %s.\n", outPath, len(resolved), lockfile.LockfileName)
		return nil
	},
}

// manifestInvocations merges urlembed.toml entries, if present, with the
// directives already scanned. Manifest problems are diagnostics like any
// other, anchored to the manifest file.
func manifestInvocations(dir string, pkg *directive.Package, diags *diag.List) []resolver.Invocation {
	manifestPath := filepath.Join(dir, manifest.ManifestName)
	m, err := manifest.Load(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			diags.Add(manifestPos(manifestPath), err)
		}
		return nil
	}

	invs, err := m.Invocations(manifestPath)
	if err != nil {
		diags.Add(manifestPos(manifestPath), err)
		return nil
	}

	declared := make(map[string]bool, len(pkg.Invocations))
	for _, inv := range pkg.Invocations {
		declared[inv.Name] = true
	}

	var merged []resolver.Invocation
	for _, inv := range invs {
		if declared[inv.Name] {
			diags.Add(inv.Pos, fmt.Errorf("embed %q is declared both in a directive and in %s", inv.Name, manifest.ManifestName))
			continue
		}
		if inv.TypeName != "" {
			desc, shapeErr := pkg.ShapeFor(inv.TypeName)
			if shapeErr != nil {
				diags.Add(inv.Pos, shapeErr)
				continue
			}
			inv.Shape = desc
		}
		merged = append(merged, inv)
	}
	return merged
}

func manifestPos(path string) (pos token.Position) {
	pos.Filename = path
	pos.Line = 1
	return pos
}
