package handler

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/internal/output"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/m-mizutani/jirasearch/pkg/soapsearch"
	"github.com/m-mizutani/jirasearch/pkg/xmlsearch"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Searcher is an adapter call. It emits rows to emitter and returns error without local recovery.
type Searcher func(ctx context.Context, args *Arguments, emitter output.Emitter) error

// XMLSearch returns Searcher of XML SearchRequest endpoint
func XMLSearch(query string) Searcher {
	return func(ctx context.Context, args *Arguments, emitter output.Emitter) error {
		searcher := xmlsearch.New(args.Config, args.newHTTP()(), args.Logger)
		return searcher.Search(ctx, query, emitter)
	}
}

// SOAPSearch returns Searcher of RPC service
func SOAPSearch(verb soapsearch.Verb, arg string) Searcher {
	return func(ctx context.Context, args *Arguments, emitter output.Emitter) error {
		searcher := soapsearch.New(args.Config, args.newJira(), args.Logger)
		return searcher.Search(ctx, verb, arg, emitter)
	}
}

// Replay returns Searcher that emits rows of an archived object, such as
// s3://my-bucket/jira/2024/05/10/<uuid>.msg.gz, as one batch.
func Replay(path string) Searcher {
	return func(ctx context.Context, args *Arguments, emitter output.Emitter) error {
		src, err := models.ParseS3Path(args.ArchiveRegion, path)
		if err != nil {
			return err
		}

		rows, err := args.ArchiveService().Load(*src)
		if err != nil {
			return err
		}

		args.Logger.WithFields(logrus.Fields{
			"path": src.Path(),
			"rows": len(rows),
		}).Info("Replay archived rows")

		return emitter.Emit(rows)
	}
}

// Result is committed output of an invocation
type Result struct {
	Batches int              `json:"batches"`
	Rows    []models.Row     `json:"rows"`
	Archive *models.S3Object `json:"archive,omitempty"`
}

// Execute runs searcher and commits emitted rows only when it succeeds. Rows are filtered and
// archived if configured.
func (x *Arguments) Execute(ctx context.Context, search Searcher) (*Result, error) {
	if err := x.Init(); err != nil {
		return nil, err
	}

	buf := output.NewBuffer()
	if err := search(ctx, x, buf); err != nil {
		return nil, err
	}

	result := &Result{
		Batches: buf.Batches(),
		Rows:    buf.Rows(),
	}

	if x.Filter != "" {
		filter, err := output.NewFilter(x.Filter)
		if err != nil {
			return nil, err
		}
		rows, err := filter.Apply(result.Rows)
		if err != nil {
			return nil, err
		}
		result.Rows = rows
	}

	if x.ArchivePath != "" {
		base, err := models.ParseS3Path(x.ArchiveRegion, x.ArchivePath)
		if err != nil {
			return nil, err
		}
		obj, err := x.ArchiveService().Archive(result.Rows, *base)
		if err != nil {
			return nil, err
		}
		result.Archive = obj
	}

	x.Logger.WithFields(logrus.Fields{
		"batches": result.Batches,
		"rows":    len(result.Rows),
	}).Debug("Committed rows")

	return result, nil
}

// Run is the error boundary of an invocation. Committed rows are rendered on success. On failure,
// the error is logged and reported, and one error result is rendered instead of rows. Returned
// error is a failure of rendering itself.
func (x *Arguments) Run(ctx context.Context, search Searcher) error {
	renderer, closer, err := x.renderer()
	if err != nil {
		internal.HandleError(err)
		return err
	}
	defer closer.Close()

	result, err := x.Execute(ctx, search)
	if err != nil {
		internal.HandleError(err)
		if rErr := renderer.RenderError(err.Error()); rErr != nil {
			return errors.Wrap(rErr, "Fail to render error result")
		}
		return nil
	}

	if err := renderer.Render(result.Rows); err != nil {
		internal.HandleError(err)
		return errors.Wrap(err, "Fail to render rows")
	}

	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func (x *Arguments) renderer() (output.Renderer, io.Closer, error) {
	if x.OutputPath == "" || x.Format == output.FormatParquet {
		r, err := output.NewRenderer(x.Format, x.writer(), x.OutputPath)
		return r, nopCloser{}, err
	}

	fd, err := os.Create(x.OutputPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Fail to create output file: %s", x.OutputPath)
	}

	r, err := output.NewRenderer(x.Format, fd, x.OutputPath)
	if err != nil {
		fd.Close()
		return nil, nil, err
	}
	return r, fd, nil
}
