package output

import (
	"github.com/itchyny/gojq"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
)

// FilterValueField is a field name that has non-object output of filter query
const FilterValueField = "value"

// Filter applies jq query to committed rows. An object output of the query becomes a row, other
// non-null output is stored in FilterValueField.
type Filter struct {
	query *gojq.Query
}

// NewFilter parses jq query
func NewFilter(query string) (*Filter, error) {
	q, err := gojq.Parse(query)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to parse filter query: %s", query)
	}
	return &Filter{query: q}, nil
}

// Apply runs the query for each row
func (x *Filter) Apply(rows []models.Row) ([]models.Row, error) {
	var output []models.Row

	for _, row := range rows {
		v, err := normalize(row)
		if err != nil {
			return nil, err
		}

		iter := x.query.Run(v)
		for {
			out, ok := iter.Next()
			if !ok {
				break
			}

			switch o := out.(type) {
			case error:
				return nil, errors.Wrap(o, "Fail to run filter query")
			case nil:
				continue
			case map[string]interface{}:
				output = append(output, models.Row(o))
			default:
				output = append(output, models.Row{FilterValueField: o})
			}
		}
	}

	return output, nil
}

// normalize converts row to JSON compatible values that gojq can handle
func normalize(row models.Row) (interface{}, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to marshal row for filter")
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(err, "Fail to unmarshal row for filter")
	}
	return v, nil
}
