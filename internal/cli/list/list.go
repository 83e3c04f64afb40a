// Package list implements the "list" command.
package list

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/Hahihula/include-url-macro/internal/core/codegen"
	"github.com/Hahihula/include-url-macro/internal/core/directive"
	"github.com/Hahihula/include-url-macro/internal/core/lockfile"
	"github.com/Hahihula/include-url-macro/internal/core/manifest"
)

// ListCommand defines the structure for the "list" command.
var ListCommand = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "Displays declared embeds and what the last gen run resolved",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"C"},
			Usage:   "Package directory to inspect",
			Value:   ".",
		},
	},
	Action: func(cCtx *cli.Context) error {
		dir := cCtx.String("dir")

		pkg, _, err := directive.Scan(dir, codegen.DefaultFileName)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error scanning %s: %v", dir, err), 1)
		}

		declared := make(map[string]string) // name -> URL
		for _, inv := range pkg.Invocations {
			declared[inv.Name] = inv.URL
		}
		if m, loadErr := manifest.Load(dir); loadErr == nil {
			for name, embed := range m.Embeds {
				declared[name] = embed.URL
			}
		} else if !os.IsNotExist(loadErr) {
			return cli.Exit(fmt.Sprintf("Error loading %s: %v", manifest.ManifestName, loadErr), 1)
		}

		lf, err := lockfile.Load(dir)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error loading %s: %v", lockfile.LockfileName, err), 1)
		}

		names := make(map[string]bool)
		for name := range declared {
			names[name] = true
		}
		for name := range lf.Embeds {
			names[name] = true
		}
		if len(names) == 0 {
			fmt.Printf("No embeds declared in %s.\n", dir)
			return nil
		}

		sorted := make([]string, 0, len(names))
		for name := range names {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)

		headerColor := color.New(color.FgCyan, color.Bold).SprintFunc()
		nameColor := color.New(color.FgWhite).SprintFunc()
		hashColor := color.New(color.FgYellow).SprintFunc()
		urlColor := color.New(color.FgHiBlack).SprintFunc()
		staleColor := color.New(color.FgRed).SprintFunc()
		pendingColor := color.New(color.FgGreen).SprintFunc()

		fmt.Println(headerColor("embeds:"))
		for _, name := range sorted {
			entry, locked := lf.Embeds[name]
			url, isDeclared := declared[name]

			switch {
			case locked && isDeclared:
				fmt.Printf("  %s %s %s\n", nameColor(name), hashColor(entry.Hash), urlColor(entry.URL))
			case locked:
				fmt.Printf("  %s %s %s %s\n", nameColor(name), hashColor(entry.Hash), urlColor(entry.URL), staleColor("(no longer declared)"))
			default:
				fmt.Printf("  %s %s %s\n", nameColor(name), urlColor(url), pendingColor("(not generated yet)"))
			}
		}
		return nil
	},
}
