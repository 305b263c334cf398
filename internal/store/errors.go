package store

import "errors"

// ErrNotFound is returned by Get when the key has never been set (or
// was deleted), as opposed to ErrExpired which means it once existed.
var ErrNotFound = errors.New("store: key not found")

// ErrExpired is returned by Get when the key's TTL has passed; the
// entry is removed from its shard as a side effect of the read.
var ErrExpired = errors.New("store: key expired")

// ErrLockTimeout is returned when a shard's lock could not be
// acquired within the bounded wait (default 1s). It guards against a
// poisoned lock or deadlock bug surfacing as an indefinite hang.
var ErrLockTimeout = errors.New("store: shard lock timeout")

// InvalidOptionsError reports a SET option bag that fails the option
// matrix's rules (§4.2): conflicting expiry options, or NX and XX
// both present.
type InvalidOptionsError struct {
	Reason string
}

func (e *InvalidOptionsError) Error() string { return "store: invalid options: " + e.Reason }

func invalidOptions(reason string) error {
	return &InvalidOptionsError{Reason: reason}
}
