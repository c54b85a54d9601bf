package output

import (
	"encoding/csv"
	"io"

	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
)

// csvRenderer writes header and rows. Error result is a single ERROR column.
type csvRenderer struct {
	w io.Writer
}

func (x *csvRenderer) Render(rows []models.Row) error {
	names := fieldNames(rows)
	records := [][]string{names}
	for _, row := range rows {
		record := make([]string, len(names))
		for i, name := range names {
			record[i] = row.String(name)
		}
		records = append(records, record)
	}

	return x.write(records)
}

func (x *csvRenderer) RenderError(msg string) error {
	return x.write([][]string{{ErrorField}, {msg}})
}

func (x *csvRenderer) write(records [][]string) error {
	w := csv.NewWriter(x.w)
	if err := w.WriteAll(records); err != nil {
		return errors.Wrap(err, "Fail to write CSV")
	}
	return nil
}
