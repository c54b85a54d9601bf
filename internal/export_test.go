package internal

import "time"

// SetNow replaces clock of Profile for testing
func (x *Profile) SetNow(now func() time.Time) {
	x.now = now
}
