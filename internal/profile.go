package internal

import (
	"sync"
	"time"
)

type profileRecord struct {
	total time.Duration
	max   time.Duration
	count int64
}

// ProfileResult is summary of a profiled target in seconds
type ProfileResult struct {
	Total float64 `json:"total"`
	Max   float64 `json:"max"`
	Count int64   `json:"count"`
}

// Profile measures elapsed time of remote calls in an invocation.
type Profile struct {
	mutex   sync.Mutex
	records map[string]*profileRecord
	now     func() time.Time
}

// NewProfile is constructor of Profile
func NewProfile() *Profile {
	return &Profile{
		records: map[string]*profileRecord{},
		now:     time.Now,
	}
}

// Start begins a measurement of target. Calling returned function finishes it.
func (x *Profile) Start(target string) func() {
	started := x.now()

	return func() {
		sub := x.now().Sub(started)

		x.mutex.Lock()
		defer x.mutex.Unlock()

		p, ok := x.records[target]
		if !ok {
			p = &profileRecord{}
			x.records[target] = p
		}

		p.count++
		p.total += sub
		if p.max < sub {
			p.max = sub
		}
	}
}

// Pack returns summary of all targets
func (x *Profile) Pack() map[string]ProfileResult {
	x.mutex.Lock()
	defer x.mutex.Unlock()

	v := map[string]ProfileResult{}
	for k, r := range x.records {
		v[k] = ProfileResult{
			Total: r.total.Seconds(),
			Max:   r.max.Seconds(),
			Count: r.count,
		}
	}
	return v
}
