package adaptor

import (
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// DecoderFactory is interface Decoder constructor
type DecoderFactory func(r io.Reader) (Decoder, error)

// Decoder reads values encoded by Encoder. Decode returns io.EOF at the end.
type Decoder interface {
	Decode(v interface{}) error
}

// NewMsgpackDecoder reads gzip compressed msgpack stream
func NewMsgpackDecoder(r io.Reader) (Decoder, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "Fail to open gzip stream")
	}
	return msgpack.NewDecoder(gr), nil
}
