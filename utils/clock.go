package utils

import (
	"sync"
	"time"
)

// Clock stamps session activity, notifications and booking updates.
type Clock interface {
	Now() time.Time
}

// BSON datetimes keep milliseconds, so every stamp is cut to that precision
// and compares equal after a round trip through Mongo.
const stampPrecision = time.Millisecond

type systemClock struct{}

// NewSystemClock returns the wall clock in UTC at BSON precision.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC().Truncate(stampPrecision)
}

// ManualClock only moves when told to. Session idle sweeps and notification
// stamps are driven through it in tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start.UTC().Truncate(stampPrecision)}
}

func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d and returns the new time.
func (m *ManualClock) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d).Truncate(stampPrecision)
	return m.now
}
