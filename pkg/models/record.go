package models

// RowRecord is columnar form of Row for parquet output. Fields other than routing fields are
// kept in Raw as JSON.
type RowRecord struct {
	// Timestamp is unixtime (second) of the row, zero if the row has no time.
	Timestamp  int64  `parquet:"name=timestamp, type=INT64" json:"timestamp" msgpack:"timestamp"`
	Host       string `parquet:"name=host, type=UTF8, encoding=PLAIN_DICTIONARY" json:"host" msgpack:"host"`
	Index      string `parquet:"name=index, type=UTF8, encoding=PLAIN_DICTIONARY" json:"index" msgpack:"index"`
	Source     string `parquet:"name=source, type=UTF8, encoding=PLAIN_DICTIONARY" json:"source" msgpack:"source"`
	Sourcetype string `parquet:"name=sourcetype, type=UTF8, encoding=PLAIN_DICTIONARY" json:"sourcetype" msgpack:"sourcetype"`
	Raw        string `parquet:"name=raw, type=UTF8" json:"raw" msgpack:"raw"`
}

// NewRowRecord converts Row to RowRecord.
func NewRowRecord(row Row) RowRecord {
	ts, _ := row.Time()
	return RowRecord{
		Timestamp:  ts,
		Host:       row.String(FieldHost),
		Index:      row.String(FieldIndex),
		Source:     row.String(FieldSource),
		Sourcetype: row.String(FieldSourcetype),
		Raw:        row.String(FieldRaw),
	}
}
