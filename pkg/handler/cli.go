package handler

import (
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/internal/output"
	"github.com/urfave/cli/v2"
)

// CLIOptions has process level options of command line tools
type CLIOptions struct {
	Format    string
	LogLevel  string
	SentryDSN string
	SentryEnv string
	Replay    string
}

// CLIFlags returns common flags of command line tools. Values are stored to args and opts.
func CLIFlags(args *Arguments, opts *CLIOptions) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "conf-dir",
			Aliases:     []string{"c"},
			Usage:       "Directory that has default/jira.conf and local/jira.conf",
			Destination: &args.Sources.ConfDir,
			EnvVars:     []string{"JIRA_CONF_DIR"},
		},
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "dotenv file that has JIRA_* variables",
			Destination: &args.Sources.EnvFile,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Value:       string(output.FormatCSV),
			Usage:       fmt.Sprintf("Output format [%s]", strings.Join(output.Formats(), "|")),
			Destination: &opts.Format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path (required for parquet)",
			Destination: &args.OutputPath,
		},
		&cli.StringFlag{
			Name:        "filter",
			Aliases:     []string{"q"},
			Usage:       "jq query to filter rows",
			Destination: &args.Filter,
		},
		&cli.StringFlag{
			Name:        "archive",
			Usage:       "S3 path to archive rows such as s3://my-bucket/jira",
			Destination: &args.ArchivePath,
			EnvVars:     []string{"ARCHIVE_PATH"},
		},
		&cli.StringFlag{
			Name:        "region",
			Aliases:     []string{"r"},
			Usage:       "AWS region of archive bucket",
			Destination: &args.ArchiveRegion,
			EnvVars:     []string{"AWS_REGION"},
		},
		&cli.StringFlag{
			Name:        "replay",
			Usage:       "Render archived rows of the S3 object instead of searching Jira",
			Destination: &opts.Replay,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Value:       "WARN",
			Usage:       "Log level [TRACE|DEBUG|INFO|WARN|ERROR]",
			Destination: &opts.LogLevel,
			EnvVars:     []string{"LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN to report errors",
			Destination: &opts.SentryDSN,
			EnvVars:     []string{"SENTRY_DSN"},
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Destination: &opts.SentryEnv,
			EnvVars:     []string{"SENTRY_ENVIRONMENT"},
		},
	}
}

// Setup applies options to logger, error handler and args. Logs are written to stderr because
// stdout has results.
func (x *CLIOptions) Setup(args *Arguments) error {
	Logger.SetOutput(os.Stderr)
	SetLogLevel(x.LogLevel)
	args.Format = output.Format(x.Format)

	return internal.InitErrorHandler(x.SentryDSN, x.SentryEnv)
}

// Source returns Replay searcher if replay option is given, otherwise search.
func (x *CLIOptions) Source(search Searcher) Searcher {
	if x.Replay != "" {
		return Replay(x.Replay)
	}
	return search
}
