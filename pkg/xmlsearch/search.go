package xmlsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/internal/adaptor"
	"github.com/m-mizutani/jirasearch/internal/config"
	"github.com/m-mizutani/jirasearch/internal/output"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPageSize is number of items requested by a page. A page that has fewer items
// is the last one.
const DefaultPageSize = 100

// Routing values of rows from the XML search endpoint
const (
	Source     = "jql"
	Sourcetype = "jira"
)

// Searcher queries XML SearchRequest endpoint page by page.
type Searcher struct {
	cfg      *config.Config
	client   adaptor.HTTPClient
	logger   logrus.FieldLogger
	pageSize int
}

// New is constructor of Searcher
func New(cfg *config.Config, client adaptor.HTTPClient, logger logrus.FieldLogger) *Searcher {
	return &Searcher{
		cfg:      cfg,
		client:   client,
		logger:   logger,
		pageSize: DefaultPageSize,
	}
}

// Search runs JQL query and emits rows of each page to emitter. Empty query is replaced with
// the default query of config.
func (x *Searcher) Search(ctx context.Context, query string, emitter output.Emitter) error {
	if err := x.cfg.Validate(); err != nil {
		return err
	}

	if query == "" {
		q, err := x.cfg.DefaultQuery()
		if err != nil {
			return err
		}
		query = q
	}

	ext := newExtractor(x.cfg)
	prof := internal.NewProfile()
	defer func() {
		x.logger.WithField("profile", prof.Pack()).Debug("Search finished")
	}()

	for offset := 0; ; {
		stop := prof.Start("fetch")
		doc, err := x.fetch(ctx, query, offset)
		stop()
		if err != nil {
			return err
		}

		rows, err := ext.extract(doc)
		if err != nil {
			return err
		}

		if len(rows) > 0 {
			if err := emitter.Emit(rows); err != nil {
				return errors.Wrap(err, "Fail to emit rows")
			}
			offset += len(rows)
		}

		if len(rows) < x.pageSize {
			break
		}
	}

	return nil
}

func (x *Searcher) requestURL(query string, offset int) string {
	q := url.Values{}
	q.Set("jqlQuery", query)
	q.Set("tempMax", strconv.Itoa(x.pageSize))
	q.Set("pager/start", strconv.Itoa(offset))
	return x.cfg.SearchRequestURL() + "?" + q.Encode()
}

func (x *Searcher) fetch(ctx context.Context, query string, offset int) (*xmlquery.Node, error) {
	reqURL := x.requestURL(query, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to create search request: %s", reqURL)
	}
	req.SetBasicAuth(x.cfg.Username, x.cfg.Password)

	x.logger.Info(reqURL)

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to send search request: %s", reqURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Search request failed with HTTP %d: %s", resp.StatusCode, reqURL)
	}

	doc, err := xmlquery.Parse(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to parse search result")
	}

	return doc, nil
}
