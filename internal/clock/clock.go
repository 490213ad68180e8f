// Package clock provides the monotonic time source and id minting used
// throughout the dispatch core. Kept separate and pure so orchestration
// logic can be exercised against a fixed instant in tests.
package clock

import (
	"time"

	"github.com/google/uuid"
)

// Clock returns the current instant. The default implementation wraps
// time.Now; tests substitute a fixed or steppable clock.
type Clock interface {
	Now() time.Time
}

// Real is the production clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Frozen is a fixed-instant clock for deterministic tests.
type Frozen struct {
	At time.Time
}

func (f Frozen) Now() time.Time { return f.At }

// NewID mints a new opaque identifier for orders, passengers, drivers and
// dispatch-log rows.
func NewID() uuid.UUID {
	return uuid.New()
}
