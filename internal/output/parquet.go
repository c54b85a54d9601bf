package output

import (
	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

const (
	// About parquet format: https://parquet.apache.org/documentation/latest/
	parquetRowGroupSize = 16 * 1024 * 1024 // 16M
)

// parquetRenderer writes models.RowRecord to local file
type parquetRenderer struct {
	path string
}

func (x *parquetRenderer) Render(rows []models.Row) error {
	records := make([]models.RowRecord, len(rows))
	for i, row := range rows {
		records[i] = models.NewRowRecord(row)
	}
	return x.write(records)
}

func (x *parquetRenderer) RenderError(msg string) error {
	return x.write([]models.RowRecord{{Source: ErrorField, Raw: msg}})
}

func (x *parquetRenderer) write(records []models.RowRecord) error {
	fw, err := local.NewLocalFileWriter(x.path)
	if err != nil {
		return errors.Wrapf(err, "Fail to create a parquet file: %s", x.path)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(models.RowRecord), 4)
	if err != nil {
		return errors.Wrap(err, "Fail to create parquet writer")
	}
	pw.RowGroupSize = parquetRowGroupSize
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		if err := pw.Write(rec); err != nil {
			return errors.Wrapf(err, "Fail to write parquet record: %v", rec)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return errors.Wrap(err, "Fail to stop parquet writer")
	}

	logger.WithFields(logrus.Fields{
		"path":  x.path,
		"count": len(records),
	}).Debug("Wrote parquet file")

	return nil
}
