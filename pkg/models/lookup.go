package models

import "github.com/samber/lo"

const (
	// NoResolution is a code of issue that has no resolution. Remote service sends nil resolution
	// and it is decoded as empty string.
	NoResolution = ""
	// UnresolvedLabel is a label for NoResolution
	UnresolvedLabel = "UNRESOLVED"
)

// LookupTable maps enumeration code to human readable label.
type LookupTable map[string]string

// NewLookupTable builds LookupTable from remote constants (status, resolution, priority).
func NewLookupTable(constants []RemoteConstant) LookupTable {
	return lo.SliceToMap(constants, func(c RemoteConstant) (string, string) {
		return c.ID, c.Name
	})
}

// Label looks up label by code.
func (x LookupTable) Label(code string) (string, bool) {
	label, ok := x[code]
	return label, ok
}
