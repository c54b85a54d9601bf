package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/samber/lo"
)

// ErrorField is a field name of error result
const ErrorField = "ERROR"

// Renderer writes result of an invocation to the host platform. Either Render or RenderError is
// called once per invocation.
type Renderer interface {
	Render(rows []models.Row) error
	RenderError(msg string) error
}

// Format is name of output format
type Format string

// Supported output formats
const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatTable   Format = "table"
	FormatPretty  Format = "pretty"
	FormatMsgpack Format = "msgpack"
	FormatParquet Format = "parquet"
)

// Formats returns all supported format names
func Formats() []string {
	return []string{
		string(FormatCSV), string(FormatJSON), string(FormatTable),
		string(FormatPretty), string(FormatMsgpack), string(FormatParquet),
	}
}

// NewRenderer returns Renderer of the format. path is required only by parquet format, other
// formats write to w.
func NewRenderer(format Format, w io.Writer, path string) (Renderer, error) {
	switch format {
	case FormatCSV, "":
		return &csvRenderer{w: w}, nil
	case FormatJSON:
		return &jsonRenderer{w: w}, nil
	case FormatTable:
		return &tableRenderer{w: w}, nil
	case FormatPretty:
		return &prettyRenderer{w: w}, nil
	case FormatMsgpack:
		return &msgpackRenderer{w: w}, nil
	case FormatParquet:
		if path == "" {
			return nil, fmt.Errorf("Output file path is required for %s format", format)
		}
		return &parquetRenderer{path: path}, nil
	default:
		return nil, fmt.Errorf("Unsupported output format: %s", format)
	}
}

// fieldNames returns union of field names in rows
func fieldNames(rows []models.Row) []string {
	names := lo.Uniq(lo.FlatMap(rows, func(row models.Row, _ int) []string {
		return row.Keys()
	}))
	sort.Strings(names)
	return names
}
