package output

import (
	"io"

	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/olekukonko/tablewriter"
)

type tableRenderer struct {
	w io.Writer
}

func (x *tableRenderer) Render(rows []models.Row) error {
	names := fieldNames(rows)
	table := tablewriter.NewWriter(x.w)
	table.SetHeader(names)
	table.SetAutoWrapText(false)

	for _, row := range rows {
		record := make([]string, len(names))
		for i, name := range names {
			record[i] = row.String(name)
		}
		table.Append(record)
	}

	table.Render()
	return nil
}

func (x *tableRenderer) RenderError(msg string) error {
	table := tablewriter.NewWriter(x.w)
	table.SetHeader([]string{ErrorField})
	table.Append([]string{msg})
	table.Render()
	return nil
}
