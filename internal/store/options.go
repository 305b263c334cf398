/*
file: respkv/internal/store/options.go
*/
package store

// ExpiryMode distinguishes the five mutually exclusive ways SET may be
// told what to do with a key's TTL.
type ExpiryMode int

const (
	// ExpiryUnset means the caller passed none of EX/PX/EXAT/PXAT/KEEPTTL;
	// a fresh key gets no TTL and an overwritten key loses whatever TTL
	// it had (standard SET semantics).
	ExpiryUnset ExpiryMode = iota
	ExpirySeconds
	ExpiryMillis
	ExpiryUnixSeconds
	ExpiryUnixMillis
	ExpiryKeep
)

// Presence distinguishes NX/XX/neither for the existence precondition.
type Presence int

const (
	PresenceAny Presence = iota
	PresenceNX           // only set if the key does not already exist
	PresenceXX           // only set if the key already exists
)

// SetOptions is the parsed, validated option bag for a SET call,
// mirroring the EX/PX/EXAT/PXAT/NX/XX/KEEPTTL/GET matrix.
type SetOptions struct {
	Expiry      ExpiryMode
	ExpiryValue int64 // seconds, millis, or absolute unix seconds/millis depending on Expiry
	Presence    Presence
	ReturnOld   bool
}

// SetOptionsBuilder accumulates raw flags the way a command parser
// sees them one token at a time, rejecting a conflicting flag as soon
// as it is added (WithExpiry, WithPresence); Build itself never fails.
// This mirrors how the command layer walks a SET argument array.
type SetOptionsBuilder struct {
	expirySet   bool
	expiry      ExpiryMode
	expiryValue int64
	presenceSet bool
	presence    Presence
	returnOld   bool
}

func (b *SetOptionsBuilder) WithExpiry(mode ExpiryMode, value int64) error {
	if b.expirySet {
		return invalidOptions("EX, PX, EXAT, PXAT and KEEPTTL are mutually exclusive")
	}
	b.expirySet = true
	b.expiry = mode
	b.expiryValue = value
	return nil
}

func (b *SetOptionsBuilder) WithPresence(p Presence) error {
	if b.presenceSet {
		return invalidOptions("NX and XX are mutually exclusive")
	}
	b.presenceSet = true
	b.presence = p
	return nil
}

func (b *SetOptionsBuilder) WithGet() {
	b.returnOld = true
}

func (b *SetOptionsBuilder) Build() (SetOptions, error) {
	opts := SetOptions{
		Expiry:      b.expiry,
		ExpiryValue: b.expiryValue,
		Presence:    b.presence,
		ReturnOld:   b.returnOld,
	}
	if !b.expirySet {
		opts.Expiry = ExpiryUnset
	}
	if !b.presenceSet {
		opts.Presence = PresenceAny
	}
	return opts, nil
}
