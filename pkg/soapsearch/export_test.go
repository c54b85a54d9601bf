package soapsearch

import "time"

// SetNow replaces clock of Searcher for testing
func (x *Searcher) SetNow(now func() time.Time) {
	x.now = now
}
