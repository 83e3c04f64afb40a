// Package initcmd implements the "init" command.
package initcmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Hahihula/include-url-macro/internal/core/manifest"
)

// promptWithDefault asks for a value on stdin, falling back to defaultValue
// on empty input.
func promptWithDefault(reader *bufio.Reader, promptText string, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s (default: %s): ", promptText, defaultValue)
	} else {
		fmt.Printf("%s: ", promptText)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input for '%s': %w", promptText, err)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}

// InitCommand defines the structure for the "init" command.
var InitCommand = &cli.Command{
	Name:  "init",
	Usage: "Creates a starter urlembed.toml in the current directory",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Accept all defaults without prompting",
		},
	},
	Action: func(cCtx *cli.Context) error {
		if _, err := os.Stat(manifest.ManifestName); err == nil {
			return cli.Exit(fmt.Sprintf("Error: %s already exists.", manifest.ManifestName), 1)
		}

		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		name := filepath.Base(wd)

		if !cCtx.Bool("yes") {
			reader := bufio.NewReader(os.Stdin)
			name, err = promptWithDefault(reader, "Package name", name)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
		}

		m := &manifest.Manifest{
			Package: &manifest.PackageInfo{Name: name},
			Embeds:  map[string]manifest.Embed{},
		}
		if err := manifest.Write(".", m); err != nil {
			return cli.Exit(fmt.Sprintf("Error writing %s: %v", manifest.ManifestName, err), 1)
		}

		fmt.Printf("Created %s.\nDeclare embeds under [embeds], or use //urlembed: directives in your Go source, then run 'urlembed gen'.\n", manifest.ManifestName)
		return nil
	},
}
