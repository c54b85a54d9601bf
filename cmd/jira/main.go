package main

import (
	"os"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/pkg/handler"
	"github.com/urfave/cli/v2"
)

var logger = handler.Logger

func main() {
	var args handler.Arguments
	var opts handler.CLIOptions

	app := &cli.App{
		Name:      "jira",
		Usage:     "Search Jira issues by JQL via SearchRequest XML endpoint",
		ArgsUsage: `["JQL query"]`,
		Flags:     handler.CLIFlags(&args, &opts),
		Action: func(c *cli.Context) error {
			if err := opts.Setup(&args); err != nil {
				return err
			}
			defer internal.FlushError()

			return args.Run(c.Context, opts.Source(handler.XMLSearch(c.Args().First())))
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Abort")
	}
}
