package handler

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/m-mizutani/jirasearch/internal/adaptor"
	"github.com/m-mizutani/jirasearch/internal/config"
	"github.com/m-mizutani/jirasearch/internal/output"
	"github.com/m-mizutani/jirasearch/internal/service"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Arguments is context of an invocation. It has config, logger and adaptor factories, and
// nothing is shared with other invocations except the immutable Config.
type Arguments struct {
	// Config is loaded from Sources if nil
	Config  *config.Config
	Sources config.Sources

	Format     output.Format
	OutputPath string
	Filter     string
	// ArchivePath is s3://bucket/prefix to store committed rows. Empty means no archive.
	ArchivePath   string
	ArchiveRegion string

	// Writer is destination of rendered result. Default is os.Stdout.
	Writer io.Writer `json:"-"`
	// Logger is scoped to the invocation. It is set by Init.
	Logger *logrus.Entry `json:"-"`

	NewHTTP adaptor.HTTPClientFactory `json:"-"`
	NewJira adaptor.JiraClientFactory `json:"-"`
	NewS3   adaptor.S3ClientFactory   `json:"-"`
}

// Init sets invocation scoped logger and loads config if not loaded yet.
func (x *Arguments) Init() error {
	if x.Logger == nil {
		x.Logger = Logger.WithField("invocation_id", uuid.New().String())
	}

	if x.Config == nil {
		cfg, err := config.Load(x.Sources)
		if err != nil {
			return errors.Wrap(err, "Fail to load config")
		}
		x.Config = cfg
	}

	return nil
}

// ArchiveService provides archive of committed rows with S3 adaptor
func (x *Arguments) ArchiveService() *service.ArchiveService {
	return service.NewArchiveService(x.newS3())
}

func (x *Arguments) writer() io.Writer {
	if x.Writer != nil {
		return x.Writer
	}
	return os.Stdout
}

func (x *Arguments) newHTTP() adaptor.HTTPClientFactory {
	if x.NewHTTP != nil {
		return x.NewHTTP
	}
	return adaptor.NewHTTPClient
}

func (x *Arguments) newJira() adaptor.JiraClientFactory {
	if x.NewJira != nil {
		return x.NewJira
	}
	return adaptor.NewJiraClient
}

func (x *Arguments) newS3() adaptor.S3ClientFactory {
	if x.NewS3 != nil {
		return x.NewS3
	}
	return adaptor.NewS3Client
}
