package transform

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/spf13/cast"
)

// Key is a field name of remote record and an optional lookup table for the value.
type Key struct {
	Name   string
	Lookup models.LookupTable
}

// Flatten builds a Row that has one entry per key. Value of a key is looked up by record's
// field, and it is converted by Lookup if available. A key is omitted when the field does not exist
// or the value is empty, except a key with Lookup also looks up the empty code.
func Flatten(record interface{}, keys []Key) models.Row {
	row := models.Row{}
	value := reflect.Indirect(reflect.ValueOf(record))

	for _, key := range keys {
		v, ok := lookupField(value, key.Name)
		if !ok {
			continue
		}

		s := toValueString(v)
		if key.Lookup != nil {
			if label, ok := key.Lookup.Label(s); ok {
				s = label
			}
		}

		if s != "" {
			row[key.Name] = s
		}
	}

	return row
}

func parseTagName(tag string) string {
	if tag == "" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

// lookupField finds field by name of xml tag, json tag or field name (case insensitive).
func lookupField(value reflect.Value, name string) (reflect.Value, bool) {
	switch value.Kind() {
	case reflect.Struct:
		t := value.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue // unexported
			}

			if parseTagName(f.Tag.Get("xml")) == name ||
				parseTagName(f.Tag.Get("json")) == name ||
				strings.EqualFold(f.Name, name) {
				return value.Field(i), true
			}
		}

	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		v := value.MapIndex(reflect.ValueOf(name).Convert(value.Type().Key()))
		if v.IsValid() {
			return v, true
		}
	}

	return reflect.Value{}, false
}

// toValueString converts a field value to string. Multiple values are joined with comma.
func toValueString(value reflect.Value) string {
	if !value.IsValid() {
		return ""
	}

	if value.Kind() == reflect.Interface || value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return ""
		}
		if value.Kind() == reflect.Interface {
			return toValueString(value.Elem())
		}
	}

	if value.CanInterface() {
		if s, ok := value.Interface().(fmt.Stringer); ok && value.Kind() != reflect.Ptr {
			return s.String()
		}
	}

	switch value.Kind() {
	case reflect.Ptr:
		return toValueString(value.Elem())

	case reflect.Slice, reflect.Array:
		var values []string
		for i := 0; i < value.Len(); i++ {
			if s := toValueString(value.Index(i)); s != "" {
				values = append(values, s)
			}
		}
		return strings.Join(values, ",")

	case reflect.Struct:
		return ""

	default:
		return cast.ToString(value.Interface())
	}
}
