package zone

import "errors"

// ErrZoneFull is returned when a zone's hourly quota (and queue, if any)
// is exhausted (spec §4.3, §7 Policy class).
var ErrZoneFull = errors.New("zone quota exhausted")

// ErrQueueTimeout is returned when a queued request waits past
// queueTimeoutMinutes without being admitted (spec §4.3 "Hour roll", §7
// Exhaustion class).
var ErrQueueTimeout = errors.New("zone queue timeout")
