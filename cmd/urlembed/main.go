package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Hahihula/include-url-macro/internal/cli/check"
	"github.com/Hahihula/include-url-macro/internal/cli/gen"
	"github.com/Hahihula/include-url-macro/internal/cli/get"
	"github.com/Hahihula/include-url-macro/internal/cli/initcmd"
	"github.com/Hahihula/include-url-macro/internal/cli/list"
	"github.com/Hahihula/include-url-macro/internal/cli/self"
)

func main() {
	app := &cli.App{
		Name:    "urlembed",
		Usage:   "Embeds remote content as Go constants at build time",
		Version: "v0.1.0",
		Action: func(c *cli.Context) error {
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			gen.GenCommand,
			check.CheckCommand,
			get.GetCommand,
			list.ListCommand,
			initcmd.InitCommand,
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
