package service

import "time"

// SetNow replaces clock of ArchiveService for testing
func (x *ArchiveService) SetNow(now func() time.Time) {
	x.now = now
}
