package models

import (
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reserved field names of Row. They are consumed by the host analytics platform.
const (
	FieldTime       = "_time"
	FieldRaw        = "_raw"
	FieldHost       = "host"
	FieldIndex      = "index"
	FieldSource     = "source"
	FieldSourcetype = "sourcetype"
)

// DefaultIndex is index name of all rows generated by jirasearch.
const DefaultIndex = "jira"

// Row is a flattened record. Values are string, int64 (FieldTime) or []string (raw multi-value
// custom fields of the RPC adapter).
type Row map[string]interface{}

// Routing has fixed fields that tell the host platform where a row comes from.
type Routing struct {
	Host       string
	Index      string
	Source     string
	Sourcetype string
}

// SetRouting copies routing fields into the row.
func (x Row) SetRouting(r Routing) {
	x[FieldHost] = r.Host
	x[FieldIndex] = r.Index
	x[FieldSource] = r.Source
	x[FieldSourcetype] = r.Sourcetype
}

// SetTime sets unixtime (second) as FieldTime.
func (x Row) SetTime(ts int64) { x[FieldTime] = ts }

// Time returns FieldTime value if available.
func (x Row) Time() (int64, bool) {
	v, ok := x[FieldTime]
	if !ok {
		return 0, false
	}
	ts, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return ts, true
}

// String returns string form of a field. A list is joined with comma.
func (x Row) String(key string) string {
	v, ok := x[key]
	if !ok || v == nil {
		return ""
	}
	switch values := v.(type) {
	case []string:
		return strings.Join(values, ",")
	case []interface{}:
		return strings.Join(cast.ToStringSlice(values), ",")
	}
	return cast.ToString(v)
}

// Seal takes a snapshot of the row and stores it to FieldRaw. A row should not be modified after Seal.
func (x Row) Seal() error {
	delete(x, FieldRaw)
	raw, err := json.Marshal(x)
	if err != nil {
		return errors.Wrapf(err, "Fail to marshal row for %s", FieldRaw)
	}
	x[FieldRaw] = string(raw)
	return nil
}

// Keys returns sorted field names of the row.
func (x Row) Keys() []string {
	keys := make([]string, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
