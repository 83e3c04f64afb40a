// Package get implements the "get" command: a one-off resolve of a single
// URL, for inspecting remote content before pinning it in a directive.
package get

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/urfave/cli/v2"

	"github.com/Hahihula/include-url-macro/internal/core/content"
	"github.com/Hahihula/include-url-macro/internal/core/fetcher"
	"github.com/Hahihula/include-url-macro/internal/core/jsonval"
	"github.com/Hahihula/include-url-macro/internal/core/urlcheck"
)

// GetCommand defines the structure for the "get" command.
var GetCommand = &cli.Command{
	Name:      "get",
	Usage:     "Fetches a URL through the embed pipeline and prints the result",
	ArgsUsage: "<url>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Parse the content as JSON (same as --format json)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, or yaml",
			Value:   "text",
		},
	},
	Action: func(cCtx *cli.Context) error {
		if cCtx.NArg() != 1 {
			return cli.Exit("Error: <url> argument is required.", 1)
		}
		rawURL := cCtx.Args().Get(0)

		format := cCtx.String("format")
		if cCtx.Bool("json") {
			format = "json"
		}
		if format != "text" && format != "json" && format != "yaml" {
			return cli.Exit(fmt.Sprintf("Error: unknown format %q (want text, json, or yaml).", format), 1)
		}

		if _, err := urlcheck.Validate(rawURL); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		body, err := fetcher.Fetch(nil, rawURL)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		text, err := content.Materialize(body)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		out := cCtx.App.Writer

		if format == "text" {
			_, _ = fmt.Fprint(out, text)
			return nil
		}

		value, err := jsonval.Parse(text)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		var rendered []byte
		switch format {
		case "json":
			rendered, err = json.MarshalIndent(value, "", "  ")
			rendered = append(rendered, '\n')
		case "yaml":
			rendered, err = yaml.Marshal(value)
		}
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error rendering %s: %v", format, err), 1)
		}
		_, _ = out.Write(rendered)
		return nil
	},
}
