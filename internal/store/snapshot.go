/*
file: respkv/internal/store/snapshot.go
*/
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// snapshotEntry is the JSON-on-disk shape of one key: {value, expire_at}.
// expire_at is null for keys with no TTL.
type snapshotEntry struct {
	Value    []byte `json:"value"`
	ExpireAt *int64 `json:"expire_at"`
}

// Save writes the keyspace to path as a single JSON document. It
// writes to a temp file in the same directory and renames it into
// place, the same discipline the teacher's SaveRDB uses (prepare the
// full buffer, fsync, then swap) so a crash mid-write never leaves a
// half-written snapshot at path.
func (ks *Keyspace) Save(path string) error {
	snap := make(map[string]snapshotEntry)
	now := nowMillis()
	for _, s := range ks.shards {
		if err := s.acquire(); err != nil {
			return err
		}
		s.mu.RLock()
		for k, e := range s.entries {
			if e.expiredAt(now) {
				continue
			}
			snap[k] = snapshotEntry{Value: e.Value, ExpireAt: e.ExpireAt}
		}
		s.mu.RUnlock()
		s.release()
	}

	encoded, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: rename snapshot into place: %w", err)
	}
	log.Printf("store: saved %d keys to %s", len(snap), path)
	return nil
}

// Load adds the entries recorded at path to the keyspace, overwriting
// any key it already holds; keys not in the snapshot are left as they
// are, and entries already expired are skipped. A missing file is not
// an error: it means the server is starting with no prior snapshot.
func (ks *Keyspace) Load(path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read snapshot: %w", err)
	}

	var snap map[string]snapshotEntry
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("store: decode snapshot: %w", err)
	}

	now := nowMillis()
	for key, se := range snap {
		entry := &Entry{Value: se.Value, ExpireAt: se.ExpireAt}
		if entry.expiredAt(now) {
			continue
		}
		s := ks.shardFor(key)
		if err := s.acquire(); err != nil {
			return err
		}
		s.mu.Lock()
		s.entries[key] = entry
		s.mu.Unlock()
		s.release()
	}
	log.Printf("store: loaded %d keys from %s", len(snap), path)
	return nil
}
