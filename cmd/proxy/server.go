package main

import (
	"fmt"
	"os"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/pkg/api"
	"github.com/m-mizutani/jirasearch/pkg/handler"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var logger = handler.Logger

type parameters struct {
	addr string
	port int
}

func main() {
	var args handler.Arguments
	var opts handler.CLIOptions
	var params parameters

	api.Logger = logger

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Aliases:     []string{"a"},
			Value:       "127.0.0.1",
			Usage:       "Bind address",
			Destination: &params.addr,
		},
		&cli.IntFlag{
			Name:        "port",
			Aliases:     []string{"p"},
			Value:       10080,
			Usage:       "Bind port number",
			Destination: &params.port,
		},
	}

	app := &cli.App{
		Name:  "proxy",
		Usage: "HTTP proxy server of Jira search",
		Flags: append(flags, handler.CLIFlags(&args, &opts)...),
		Action: func(c *cli.Context) error {
			if err := opts.Setup(&args); err != nil {
				return err
			}
			defer internal.FlushError()

			logger.WithFields(logrus.Fields{
				"sources": args.Sources,
				"params":  params,
			}).Info("Start proxy server")

			r := api.NewRouter(api.NewJiraHandler(args))
			bindAddr := fmt.Sprintf("%s:%d", params.addr, params.port)
			return r.Run(bindAddr)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}
