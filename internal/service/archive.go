package service

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/jirasearch/internal/adaptor"
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ArchiveService stores committed rows of an invocation to S3 as an encoded object.
type ArchiveService struct {
	s3     *S3Service
	encode adaptor.EncoderFactory
	decode adaptor.DecoderFactory
	now    func() time.Time
}

// NewArchiveService is constructor of ArchiveService with msgpack+gzip encoding.
func NewArchiveService(newS3 adaptor.S3ClientFactory) *ArchiveService {
	return &ArchiveService{
		s3:     NewS3Service(newS3),
		encode: adaptor.NewMsgpackEncoder,
		decode: adaptor.NewMsgpackDecoder,
		now:    time.Now,
	}
}

// Archive uploads rows to base/YYYY/MM/DD/<uuid>.<ext> and returns location of the object.
// Empty rows are not uploaded and nil is returned.
func (x *ArchiveService) Archive(rows []models.Row, base models.S3Object) (*models.S3Object, error) {
	if len(rows) == 0 {
		logger.Debug("No rows to archive")
		return nil, nil
	}

	var buf bytes.Buffer
	enc := x.encode(&buf)
	for _, row := range rows {
		if err := enc.Encode(map[string]interface{}(row)); err != nil {
			return nil, errors.Wrap(err, "Fail to encode a row for archive")
		}
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "Fail to close archive encoder")
	}

	key := fmt.Sprintf("%s/%s.%s", x.now().UTC().Format("2006/01/02"), uuid.New().String(), enc.Ext())
	dst := base.AppendKey(key)

	if err := x.s3.Upload(buf.Bytes(), dst, enc.ContentEncoding()); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"path":  dst.Path(),
		"rows":  enc.Count(),
		"bytes": enc.Size(),
	}).Info("Archived rows")

	return &dst, nil
}

// Load reads archived rows from the object
func (x *ArchiveService) Load(src models.S3Object) ([]models.Row, error) {
	body, err := x.s3.Download(src)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("Archive is not found: %s", src.Path())
	}
	defer body.Close()

	dec, err := x.decode(body)
	if err != nil {
		return nil, err
	}

	var rows []models.Row
	for {
		var row map[string]interface{}
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "Fail to decode archive: %s", src.Path())
		}
		rows = append(rows, models.Row(row))
	}

	return rows, nil
}
