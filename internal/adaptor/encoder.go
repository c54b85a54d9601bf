package adaptor

import (
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// EncoderFactory is interface Encoder constructor
type EncoderFactory func(w io.Writer) Encoder

// Encoder writes values into w as a stream. Close must be called to flush, but it does not close w.
type Encoder interface {
	Encode(v interface{}) error
	Close() error
	// Count is number of encoded values
	Count() int
	// Size is bytes before compression
	Size() int64
	Ext() string
	ContentEncoding() string
}

type msgpackEncoder struct {
	gw      *gzip.Writer
	enc     *msgpack.Encoder
	written *writeCounter
	count   int
}

// NewMsgpackEncoder returns gzip compressed msgpack encoder. Map keys are sorted to make output
// stable.
func NewMsgpackEncoder(w io.Writer) Encoder {
	gw := gzip.NewWriter(w)
	written := &writeCounter{w: gw}
	enc := msgpack.NewEncoder(written)
	enc.SetSortMapKeys(true)

	return &msgpackEncoder{
		gw:      gw,
		enc:     enc,
		written: written,
	}
}

func (x *msgpackEncoder) Encode(v interface{}) error {
	if err := x.enc.Encode(v); err != nil {
		return errors.Wrap(err, "Fail to encode msgpack")
	}
	x.count++
	return nil
}

func (x *msgpackEncoder) Close() error {
	if err := x.gw.Close(); err != nil {
		return errors.Wrap(err, "Fail to flush gzip stream")
	}
	return nil
}

func (x *msgpackEncoder) Count() int              { return x.count }
func (x *msgpackEncoder) Size() int64             { return x.written.n }
func (x *msgpackEncoder) Ext() string             { return "msg.gz" }
func (x *msgpackEncoder) ContentEncoding() string { return "gzip" }

type writeCounter struct {
	w io.Writer
	n int64
}

func (x *writeCounter) Write(p []byte) (int, error) {
	n, err := x.w.Write(p)
	x.n += int64(n)
	return n, err
}
