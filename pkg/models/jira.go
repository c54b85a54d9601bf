package models

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// RowTimeFormat is layout of date time values in rows built from RPC records.
const RowTimeFormat = "2006-01-02 15:04:05"

// Array is SOAP encoded array. Name of item elements is not fixed by the remote service,
// then any child element is decoded as an item.
type Array[T any] []T

// UnmarshalXML implements xml.Unmarshaler
func (x *Array[T]) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err != nil {
			return errors.Wrapf(err, "Fail to decode array: %s", start.Name.Local)
		}

		switch t := token.(type) {
		case xml.StartElement:
			var v T
			if err := d.DecodeElement(&v, &t); err != nil {
				return errors.Wrapf(err, "Fail to decode array item: %s", t.Name.Local)
			}
			*x = append(*x, v)
		case xml.EndElement:
			return nil
		}
	}
}

// Time is xsd:dateTime value. Nil or empty element is zero time.
type Time struct {
	time.Time
}

// UnmarshalXML implements xml.Unmarshaler
func (x *Time) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}

	s = strings.TrimSpace(s)
	if s == "" {
		x.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.Wrapf(err, "Invalid dateTime format in %s: %s", start.Name.Local, s)
	}
	x.Time = t
	return nil
}

// String returns local time in RowTimeFormat. Zero time is empty string.
func (x Time) String() string {
	if x.IsZero() {
		return ""
	}
	return x.Local().Format(RowTimeFormat)
}

// RemoteConstant is status, resolution and priority definition.
type RemoteConstant struct {
	ID          string `xml:"id"`
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Icon        string `xml:"icon"`
}

// RemoteFilter is a saved filter of user.
type RemoteFilter struct {
	ID          string `xml:"id"`
	Name        string `xml:"name"`
	Author      string `xml:"author"`
	Description string `xml:"description"`
	Project     string `xml:"project"`
}

// RemoteVersion is fix (or affects) version of issue.
type RemoteVersion struct {
	ID       string `xml:"id"`
	Name     string `xml:"name"`
	Archived bool   `xml:"archived"`
	Released bool   `xml:"released"`
}

func (x RemoteVersion) String() string { return x.Name }

// RemoteComponent is project component.
type RemoteComponent struct {
	ID   string `xml:"id"`
	Name string `xml:"name"`
}

func (x RemoteComponent) String() string { return x.Name }

// RemoteCustomFieldValue has values of a custom field.
type RemoteCustomFieldValue struct {
	CustomfieldID string        `xml:"customfieldId"`
	Key           string        `xml:"key"`
	Values        Array[string] `xml:"values"`
}

// RemoteIssue is an issue returned by RPC service. Status, Resolution, Priority and Type are codes.
type RemoteIssue struct {
	ID                string                        `xml:"id"`
	Key               string                        `xml:"key"`
	Summary           string                        `xml:"summary"`
	Description       string                        `xml:"description"`
	Environment       string                        `xml:"environment"`
	Assignee          string                        `xml:"assignee"`
	Reporter          string                        `xml:"reporter"`
	Project           string                        `xml:"project"`
	Type              string                        `xml:"type"`
	Status            string                        `xml:"status"`
	Resolution        string                        `xml:"resolution"`
	Priority          string                        `xml:"priority"`
	Created           Time                          `xml:"created"`
	Updated           Time                          `xml:"updated"`
	Duedate           Time                          `xml:"duedate"`
	FixVersions       Array[RemoteVersion]          `xml:"fixVersions"`
	AffectsVersions   Array[RemoteVersion]          `xml:"affectsVersions"`
	Components        Array[RemoteComponent]        `xml:"components"`
	CustomFieldValues Array[RemoteCustomFieldValue] `xml:"customFieldValues"`
}
