package xmlsearch_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/jirasearch/internal"
	"github.com/m-mizutani/jirasearch/internal/config"
	"github.com/m-mizutani/jirasearch/internal/output"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/m-mizutani/jirasearch/pkg/xmlsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemTemplate = `<item>
<title>[%[1]s] issue %[1]s</title>
<key id="%[2]d">%[1]s</key>
<summary>summary of %[1]s</summary>
<fixVersion>1.0</fixVersion>
<fixVersion>1.1</fixVersion>
<updated>%[3]s</updated>
<timeestimate seconds="3600">1 hour</timeestimate>
<timespent seconds="60">1 minute</timespent>
<timespent seconds="120">2 minutes</timespent>
<customfields>
  <customfield id="customfield_10730" key="com.atlassian.jira.plugin.system.customfieldtypes:float">
    <customfieldname>Cost</customfieldname>
    <customfieldvalues><customfieldvalue>10</customfieldvalue></customfieldvalues>
  </customfield>
  <customfield id="customfield_10000" key="com.atlassian.jira.plugin.system.customfieldtypes:labels">
    <customfieldname>Tags</customfieldname>
    <customfieldvalues>
      <customfieldvalue>raw</customfieldvalue>
      <label>blue</label>
      <label>red</label>
    </customfieldvalues>
  </customfield>
</customfields>
</item>
`

const defaultUpdated = "Fri, 10 May 2024 14:30:00 +0000"

func buildPage(start, count int, updated string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="0.92"><channel><title>Jira</title>`)
	for i := 0; i < count; i++ {
		b.WriteString(fmt.Sprintf(itemTemplate, fmt.Sprintf("A-%d", start+i), start+i, updated))
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

type recorder struct {
	batches [][]models.Row
}

func (x *recorder) Emit(rows []models.Row) error {
	x.batches = append(x.batches, rows)
	return nil
}

func (x *recorder) rows() []models.Row {
	var rows []models.Row
	for _, b := range x.batches {
		rows = append(rows, b...)
	}
	return rows
}

type fakeJira struct {
	total   int
	updated string
	starts  []string
	queries []url.Values
	auth    []string
}

func (x *fakeJira) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/sr/jira.issueviews:searchrequest-xml/temp/SearchRequest.xml" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	x.queries = append(x.queries, q)
	x.starts = append(x.starts, q.Get("pager/start"))
	x.auth = append(x.auth, r.Header.Get("Authorization"))

	start, _ := strconv.Atoi(q.Get("pager/start"))
	max, _ := strconv.Atoi(q.Get("tempMax"))
	count := x.total - start
	if count > max {
		count = max
	}
	if count < 0 {
		count = 0
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Write([]byte(buildPage(start, count, x.updated)))
}

func setup(t *testing.T, jira *fakeJira) (*xmlsearch.Searcher, *httptest.Server) {
	server := httptest.NewTLSServer(jira)
	t.Cleanup(server.Close)

	cfg := config.New()
	cfg.Hostname = strings.TrimPrefix(server.URL, "https://")
	cfg.Username = "blue"
	cfg.Password = "five timeless words"
	cfg.Keys = "key, summary,fixVersion,updated,nothing"
	cfg.TimeKeys = "timeestimate,timespent"
	cfg.CustomKeys = "Cost,Tags,Missing"
	cfg.DefaultProject = "ORANGE"

	return xmlsearch.New(cfg, server.Client(), internal.Logger), server
}

func TestSearchPagination(t *testing.T) {
	jira := &fakeJira{total: 237, updated: defaultUpdated}
	searcher, server := setup(t, jira)

	rec := &recorder{}
	require.NoError(t, searcher.Search(context.Background(), "project=BLUE", rec))

	assert.Equal(t, []string{"0", "100", "200"}, jira.starts)
	require.Equal(t, 3, len(rec.batches))
	assert.Equal(t, 100, len(rec.batches[0]))
	assert.Equal(t, 100, len(rec.batches[1]))
	assert.Equal(t, 37, len(rec.batches[2]))
	assert.Equal(t, 237, len(rec.rows()))

	for _, q := range jira.queries {
		assert.Equal(t, "project=BLUE", q.Get("jqlQuery"))
		assert.Equal(t, "100", q.Get("tempMax"))
	}

	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte("blue:five timeless words"))
	for _, a := range jira.auth {
		assert.Equal(t, auth, a)
	}

	t.Run("rows have unique keys in order", func(tt *testing.T) {
		rows := rec.rows()
		assert.Equal(tt, "A-0", rows[0]["key"])
		assert.Equal(tt, "A-236", rows[236]["key"])
	})

	t.Run("routing fields", func(tt *testing.T) {
		row := rec.rows()[0]
		assert.Equal(tt, strings.TrimPrefix(server.URL, "https://"), row[models.FieldHost])
		assert.Equal(tt, "jira", row[models.FieldIndex])
		assert.Equal(tt, "jql", row[models.FieldSource])
		assert.Equal(tt, "jira", row[models.FieldSourcetype])
	})
}

func TestSearchExactPageSize(t *testing.T) {
	jira := &fakeJira{total: 200, updated: defaultUpdated}
	searcher, _ := setup(t, jira)

	rec := &recorder{}
	require.NoError(t, searcher.Search(context.Background(), "project=BLUE", rec))

	// The last page has no item, then nothing is emitted for the page
	assert.Equal(t, []string{"0", "100", "200"}, jira.starts)
	assert.Equal(t, 2, len(rec.batches))
	assert.Equal(t, 200, len(rec.rows()))
}

func TestSearchExtract(t *testing.T) {
	jira := &fakeJira{total: 1, updated: defaultUpdated}
	searcher, _ := setup(t, jira)

	rec := &recorder{}
	require.NoError(t, searcher.Search(context.Background(), "key=A-0", rec))
	require.Equal(t, 1, len(rec.rows()))
	row := rec.rows()[0]

	t.Run("simple keys", func(tt *testing.T) {
		assert.Equal(tt, "A-0", row["key"])
		assert.Equal(tt, "summary of A-0", row["summary"])
		assert.Equal(tt, "1.0,1.1", row["fixVersion"])
		assert.Equal(tt, defaultUpdated, row["updated"])
		assert.NotContains(tt, row, "nothing")
	})

	t.Run("time keys have seconds attribute of single match", func(tt *testing.T) {
		assert.Equal(tt, "3600", row["timeestimate"])
		assert.NotContains(tt, row, "timespent")
	})

	t.Run("custom keys", func(tt *testing.T) {
		assert.Equal(tt, "10", row["Cost"])
		assert.Equal(tt, "blue,red", row["Tags"])
		assert.NotContains(tt, row, "Missing")
	})

	t.Run("_time is parsed from updated as local time", func(tt *testing.T) {
		ts, ok := row.Time()
		require.True(tt, ok)
		assert.Equal(tt, time.Date(2024, 5, 10, 14, 30, 0, 0, time.Local).Unix(), ts)
	})

	t.Run("_raw is snapshot of the row", func(tt *testing.T) {
		raw := row.String(models.FieldRaw)
		assert.Contains(tt, raw, `"key":"A-0"`)
		assert.Contains(tt, raw, `"source":"jql"`)
	})
}

func TestSearchDefaultQuery(t *testing.T) {
	jira := &fakeJira{total: 0, updated: defaultUpdated}
	searcher, _ := setup(t, jira)

	rec := &recorder{}
	require.NoError(t, searcher.Search(context.Background(), "", rec))
	require.Equal(t, 1, len(jira.queries))
	assert.Equal(t, "project=ORANGE", jira.queries[0].Get("jqlQuery"))
	assert.Equal(t, 0, len(rec.batches))
}

func TestSearchWithoutPort(t *testing.T) {
	server := httptest.NewTLSServer(&fakeJira{total: 3, updated: defaultUpdated})
	t.Cleanup(server.Close)

	cfg := config.New()
	cfg.Hostname = strings.TrimPrefix(server.URL, "https://")
	cfg.Port = 0
	searcher := xmlsearch.New(cfg, server.Client(), internal.Logger)

	rec := &recorder{}
	require.NoError(t, searcher.Search(context.Background(), "project=BLUE", rec))
	assert.Equal(t, 3, len(rec.rows()))
}

func TestSearchError(t *testing.T) {
	t.Run("invalid updated format", func(tt *testing.T) {
		jira := &fakeJira{total: 3, updated: "2024-05-10 14:30:00"}
		searcher, _ := setup(tt, jira)
		err := searcher.Search(context.Background(), "project=BLUE", &recorder{})
		assert.Error(tt, err)
	})

	t.Run("HTTP error status", func(tt *testing.T) {
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		cfg := config.New()
		cfg.Hostname = strings.TrimPrefix(server.URL, "https://")
		searcher := xmlsearch.New(cfg, server.Client(), internal.Logger)
		err := searcher.Search(context.Background(), "project=BLUE", &recorder{})
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "401")
	})

	t.Run("transport fault after some pages", func(tt *testing.T) {
		jira := &fakeJira{total: 250, updated: defaultUpdated}
		var server *httptest.Server
		server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("pager/start") == "100" {
				server.CloseClientConnections()
				return
			}
			jira.ServeHTTP(w, r)
		}))
		defer server.Close()

		cfg := config.New()
		cfg.Hostname = strings.TrimPrefix(server.URL, "https://")
		searcher := xmlsearch.New(cfg, server.Client(), internal.Logger)

		buf := output.NewBuffer()
		err := searcher.Search(context.Background(), "project=BLUE", buf)
		assert.Error(tt, err)
		assert.Equal(tt, 1, buf.Batches())
	})

	t.Run("no hostname", func(tt *testing.T) {
		searcher := xmlsearch.New(config.New(), http.DefaultClient, internal.Logger)
		assert.Error(tt, searcher.Search(context.Background(), "project=BLUE", &recorder{}))
	})

	t.Run("neither query nor default project", func(tt *testing.T) {
		cfg := config.New()
		cfg.Hostname = "jira.example.com"
		searcher := xmlsearch.New(cfg, http.DefaultClient, internal.Logger)
		assert.Error(tt, searcher.Search(context.Background(), "", &recorder{}))
	})
}

func TestXPathLiteral(t *testing.T) {
	assert.Equal(t, `"Cost"`, xmlsearch.XPathLiteral("Cost"))
	assert.Equal(t, `'say "hi"'`, xmlsearch.XPathLiteral(`say "hi"`))
	assert.Equal(t, `concat("it's ", '"', "x", '"', "")`, xmlsearch.XPathLiteral(`it's "x"`))
}
