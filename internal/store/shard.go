/*
file: respkv/internal/store/shard.go
*/
package store

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// lockTimeout bounds how long Get/Set will wait to acquire a shard's
// lock before giving up with ErrLockTimeout. sync.Mutex/RWMutex have
// no native timed-acquire, so each shard additionally guards itself
// with a 1-buffered channel used as a binary semaphore, which does
// support select/time.After.
const lockTimeout = 1 * time.Second

// shard is one partition of the keyspace: an independent map plus its
// own semaphore. Splitting the keyspace into shards lets unrelated
// keys be read and written concurrently instead of contending on a
// single global lock.
type shard struct {
	mu      sync.RWMutex
	sem     chan struct{}
	entries map[string]*Entry
}

func newShard() *shard {
	s := &shard{
		sem:     make(chan struct{}, 1),
		entries: make(map[string]*Entry),
	}
	s.sem <- struct{}{}
	return s
}

// acquire takes the shard's write semaphore, bounded by lockTimeout.
// Callers must release() exactly once after a successful acquire.
func (s *shard) acquire() error {
	select {
	case <-s.sem:
		return nil
	case <-time.After(lockTimeout):
		return ErrLockTimeout
	}
}

func (s *shard) release() {
	s.sem <- struct{}{}
}

// shardIndex picks a stable shard for key using a 64-bit hash. The
// hash only needs to distribute keys evenly across shards; it is
// never persisted or compared across process restarts.
func shardIndex(key string, numShards int) int {
	h := xxhash.Sum64String(key)
	return int(h % uint64(numShards))
}
