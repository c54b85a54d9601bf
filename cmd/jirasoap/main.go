package main

import (
	"os"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/pkg/handler"
	"github.com/m-mizutani/jirasearch/pkg/soapsearch"
	"github.com/urfave/cli/v2"
)

var logger = handler.Logger

const description = `Verbs:
   search "text"       free text search
   jqlsearch "JQL"     JQL search
   issues <filter_id>  issues of a saved filter
   filters             list favourite filters (to get ids for issues verb)`

func main() {
	var args handler.Arguments
	var opts handler.CLIOptions

	app := &cli.App{
		Name:        "jirasoap",
		Usage:       "Search Jira issues via remote procedure API",
		ArgsUsage:   "<verb> [argument]",
		Description: description,
		Flags:       handler.CLIFlags(&args, &opts),
		Action: func(c *cli.Context) error {
			if err := opts.Setup(&args); err != nil {
				return err
			}
			defer internal.FlushError()

			verb := soapsearch.Verb(c.Args().Get(0))
			return args.Run(c.Context, opts.Source(handler.SOAPSearch(verb, c.Args().Get(1))))
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Abort")
	}
}
