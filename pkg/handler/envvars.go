package handler

import (
	env "github.com/Netflix/go-env"
	"github.com/m-mizutani/jirasearch/internal/config"
	"github.com/m-mizutani/jirasearch/internal/output"
	"github.com/pkg/errors"
)

// EnvVars has environment variables for the Lambda function. Connection parameters of Jira are
// loaded by config package separately.
type EnvVars struct {
	ConfDir     string `env:"JIRA_CONF_DIR"`
	ArchivePath string `env:"ARCHIVE_PATH"`
	SentryDSN   string `env:"SENTRY_DSN"`
	SentryEnv   string `env:"SENTRY_ENVIRONMENT"`
	LogLevel    string `env:"LOG_LEVEL"`

	// From AWS Lambda
	AwsRegion string `env:"AWS_REGION"`
}

// BindEnvVars loads environment variables into EnvVars.
func (x *EnvVars) BindEnvVars() error {
	if _, err := env.UnmarshalFromEnviron(x); err != nil {
		return errors.Wrap(err, "Failed to bind environment variables")
	}

	return nil
}

// Arguments converts EnvVars to Arguments of an invocation.
func (x *EnvVars) Arguments() Arguments {
	return Arguments{
		Sources:       config.Sources{ConfDir: x.ConfDir},
		Format:        output.FormatJSON,
		ArchivePath:   x.ArchivePath,
		ArchiveRegion: x.AwsRegion,
	}
}
