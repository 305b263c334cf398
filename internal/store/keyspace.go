/*
file: respkv/internal/store/keyspace.go
*/
package store

import "time"

// defaultShardCount matches the teacher's default database count in
// spirit, but here it partitions one keyspace rather than selecting
// between independent logical databases -- this server has exactly
// one keyspace (see SPEC_FULL.md Non-goals: no SELECT/multi-DB).
const defaultShardCount = 16

// Keyspace is the sharded, TTL-aware map at the heart of the server.
// Every GET/SET/CONFIG-unrelated key operation goes through it.
type Keyspace struct {
	shards []*shard
}

// NewKeyspace creates a Keyspace with n shards. n must be positive;
// callers that don't care about shard count should use
// NewDefaultKeyspace.
func NewKeyspace(n int) *Keyspace {
	if n <= 0 {
		n = defaultShardCount
	}
	ks := &Keyspace{shards: make([]*shard, n)}
	for i := range ks.shards {
		ks.shards[i] = newShard()
	}
	return ks
}

func NewDefaultKeyspace() *Keyspace {
	return NewKeyspace(defaultShardCount)
}

func (ks *Keyspace) shardFor(key string) *shard {
	return ks.shards[shardIndex(key, len(ks.shards))]
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Get returns the current value for key. ErrNotFound means the key
// was never set (or was deleted); ErrExpired means it existed but its
// TTL has passed -- in both cases no value is returned, but callers
// that care about the distinction (e.g. for metrics) can tell them
// apart. A Get that finds an expired entry removes it as a side
// effect before returning ErrExpired, the same way the teacher's
// RemIfExpired does on the read path.
func (ks *Keyspace) Get(key string) ([]byte, error) {
	s := ks.shardFor(key)
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if entry.expiredAt(nowMillis()) {
		delete(s.entries, key)
		return nil, ErrExpired
	}
	return cloneEntry(entry).Value, nil
}

// Set stores value under key according to opts and reports whether
// the write actually happened (NX/XX preconditions can suppress it)
// along with the prior value when opts.ReturnOld is set.
//
// Expiry handling:
//   - ExpiryUnset: a brand new key gets no TTL; an overwritten key
//     loses any TTL it previously had (matches plain SET semantics).
//   - ExpiryKeep: the key's existing TTL (if any) is preserved.
//   - ExpirySeconds/Millis/UnixSeconds/UnixMillis: a fresh absolute
//     deadline is computed and stored.
func (ks *Keyspace) Set(key string, value []byte, opts SetOptions) (ok bool, prior []byte, err error) {
	s := ks.shardFor(key)
	if err := s.acquire(); err != nil {
		return false, nil, err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowMillis()
	existing, exists := s.entries[key]
	if exists && existing.expiredAt(now) {
		delete(s.entries, key)
		existing, exists = nil, false
	}

	if opts.Presence == PresenceNX && exists {
		return false, ks.priorValue(opts, existing), nil
	}
	if opts.Presence == PresenceXX && !exists {
		return false, nil, nil
	}

	priorOut := ks.priorValue(opts, existing)

	entry := &Entry{Value: append([]byte(nil), value...)}
	switch opts.Expiry {
	case ExpiryKeep:
		if exists {
			entry.ExpireAt = existing.ExpireAt
		}
	case ExpirySeconds:
		exp := now + opts.ExpiryValue*1000
		entry.ExpireAt = &exp
	case ExpiryMillis:
		exp := now + opts.ExpiryValue
		entry.ExpireAt = &exp
	case ExpiryUnixSeconds:
		exp := opts.ExpiryValue * 1000
		entry.ExpireAt = &exp
	case ExpiryUnixMillis:
		exp := opts.ExpiryValue
		entry.ExpireAt = &exp
	case ExpiryUnset:
		// no TTL
	}

	s.entries[key] = entry
	return true, priorOut, nil
}

func (ks *Keyspace) priorValue(opts SetOptions, existing *Entry) []byte {
	if !opts.ReturnOld || existing == nil {
		return nil
	}
	return cloneEntry(existing).Value
}

// Delete removes key unconditionally and reports whether it had been
// present (and unexpired).
func (ks *Keyspace) Delete(key string) (bool, error) {
	s := ks.shardFor(key)
	if err := s.acquire(); err != nil {
		return false, err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	delete(s.entries, key)
	return !entry.expiredAt(nowMillis()), nil
}

// ActiveExpire samples each shard and evicts entries whose TTL has
// passed, the same role the teacher's ActiveExpire ticker loop plays,
// generalized across shards so one slow shard doesn't block another.
func (ks *Keyspace) ActiveExpire(sampleSize int) (removed int) {
	now := nowMillis()
	for _, s := range ks.shards {
		if err := s.acquire(); err != nil {
			continue
		}
		s.mu.Lock()
		count := 0
		for k, e := range s.entries {
			if count >= sampleSize {
				break
			}
			count++
			if e.expiredAt(now) {
				delete(s.entries, k)
				removed++
			}
		}
		s.mu.Unlock()
		s.release()
	}
	return removed
}
