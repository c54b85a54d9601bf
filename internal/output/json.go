package output

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonRenderer writes a row per line
type jsonRenderer struct {
	w io.Writer
}

func (x *jsonRenderer) Render(rows []models.Row) error {
	enc := json.NewEncoder(x.w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return errors.Wrap(err, "Fail to encode row as JSON")
		}
	}
	return nil
}

func (x *jsonRenderer) RenderError(msg string) error {
	if err := json.NewEncoder(x.w).Encode(map[string]string{ErrorField: msg}); err != nil {
		return errors.Wrap(err, "Fail to encode error as JSON")
	}
	return nil
}
