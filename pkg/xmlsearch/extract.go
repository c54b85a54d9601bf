package xmlsearch

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/m-mizutani/jirasearch/internal/config"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	updatedKey    = "updated"
	updatedLayout = "Mon, 2 Jan 2006 15:04:05"

	// Attribute of time key element that has duration in seconds
	secondsAttr = "seconds"

	customValuePath = `customfields/customfield/customfieldvalues/customfieldvalue[../../customfieldname/text() = %s]`
	customLabelPath = `customfields/customfield/customfieldvalues/label[../../customfieldname/text() = %s]`
)

var offsetSuffix = regexp.MustCompile(` [+-]\d+$`)

type extractor struct {
	keys       []string
	timeKeys   []string
	customKeys []string
	routing    models.Routing
}

func newExtractor(cfg *config.Config) *extractor {
	return &extractor{
		keys:       cfg.SimpleKeys(),
		timeKeys:   cfg.TimeKeyList(),
		customKeys: cfg.CustomKeyList(),
		routing: models.Routing{
			Host:       cfg.Hostname,
			Index:      models.DefaultIndex,
			Source:     Source,
			Sourcetype: Sourcetype,
		},
	}
}

func (x *extractor) extract(doc *xmlquery.Node) ([]models.Row, error) {
	items, err := xmlquery.QueryAll(doc, "//item")
	if err != nil {
		return nil, errors.Wrap(err, "Fail to find items")
	}

	rows := make([]models.Row, 0, len(items))
	for _, item := range items {
		row, err := x.extractItem(item)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (x *extractor) extractItem(item *xmlquery.Node) (models.Row, error) {
	row := models.Row{}

	for _, k := range x.keys {
		nodes, err := query(item, k)
		if err != nil {
			return nil, err
		}
		if len(nodes) > 0 {
			row[k] = joinText(nodes)
		}
	}

	for _, k := range x.timeKeys {
		nodes, err := query(item, k)
		if err != nil {
			return nil, err
		}
		if len(nodes) == 1 {
			if sec := nodes[0].SelectAttr(secondsAttr); sec != "" {
				row[k] = sec
			}
		}
	}

	for _, k := range x.customKeys {
		for _, path := range []string{customValuePath, customLabelPath} {
			nodes, err := query(item, fmt.Sprintf(path, xpathLiteral(k)))
			if err != nil {
				return nil, err
			}
			if len(nodes) > 0 {
				row[k] = joinText(nodes)
			}
		}
	}

	if lo.Contains(x.keys, updatedKey) {
		ts, err := parseUpdated(item)
		if err != nil {
			return nil, err
		}
		row.SetTime(ts)
	}

	row.SetRouting(x.routing)
	if err := row.Seal(); err != nil {
		return nil, err
	}

	return row, nil
}

func query(item *xmlquery.Node, path string) ([]*xmlquery.Node, error) {
	nodes, err := xmlquery.QueryAll(item, path)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid XPath: %s", path)
	}
	return nodes, nil
}

func joinText(nodes []*xmlquery.Node) string {
	return strings.Join(lo.Map(nodes, func(n *xmlquery.Node, _ int) string {
		return n.InnerText()
	}), ",")
}

// parseUpdated converts text of updated element such as "Fri, 10 May 2024 14:30:00 +0000" to
// unixtime. The offset is dropped and the rest is parsed as local time.
func parseUpdated(item *xmlquery.Node) (int64, error) {
	node := item.SelectElement(updatedKey)
	if node == nil {
		return 0, fmt.Errorf("%s is not found in item", updatedKey)
	}

	text := offsetSuffix.ReplaceAllString(strings.TrimSpace(node.InnerText()), "")
	ts, err := time.ParseInLocation(updatedLayout, text, time.Local)
	if err != nil {
		return 0, errors.Wrapf(err, "Invalid %s format", updatedKey)
	}

	return ts.Unix(), nil
}

// xpathLiteral quotes s as XPath string literal. XPath 1.0 has no escape sequence, then concat()
// is used if s has both quote characters.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}

	parts := strings.Split(s, `"`)
	quoted := lo.Map(parts, func(p string, _ int) string { return `"` + p + `"` })
	return "concat(" + strings.Join(quoted, `, '"', `) + ")"
}
