package output

import (
	"io"

	"github.com/m-mizutani/jirasearch/internal/adaptor"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
)

// msgpackRenderer writes gzip compressed msgpack stream of rows
type msgpackRenderer struct {
	w io.Writer
}

func (x *msgpackRenderer) Render(rows []models.Row) error {
	values := make([]interface{}, len(rows))
	for i := range rows {
		values[i] = map[string]interface{}(rows[i])
	}
	return x.encode(values)
}

func (x *msgpackRenderer) RenderError(msg string) error {
	return x.encode([]interface{}{map[string]string{ErrorField: msg}})
}

func (x *msgpackRenderer) encode(values []interface{}) error {
	enc := adaptor.NewMsgpackEncoder(x.w)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "Fail to encode msgpack")
		}
	}

	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "Fail to close msgpack encoder")
	}
	return nil
}
