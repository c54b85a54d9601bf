package output

import (
	"io"

	"github.com/k0kubun/pp"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
)

type prettyRenderer struct {
	w io.Writer
}

func (x *prettyRenderer) Render(rows []models.Row) error {
	for _, row := range rows {
		if _, err := pp.Fprintln(x.w, map[string]interface{}(row)); err != nil {
			return errors.Wrap(err, "Fail to print row")
		}
	}
	return nil
}

func (x *prettyRenderer) RenderError(msg string) error {
	if _, err := pp.Fprintln(x.w, map[string]string{ErrorField: msg}); err != nil {
		return errors.Wrap(err, "Fail to print error")
	}
	return nil
}
