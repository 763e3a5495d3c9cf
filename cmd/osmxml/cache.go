package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// fingerprintCache persists the last fingerprint seen for a given root
// element name, letting repeated CLI invocations over the same element
// skip redundant work when --cache is set.
type fingerprintCache struct {
	path    string
	entries map[string]string
}

func openFingerprintCache(path string) *fingerprintCache {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "osmxml-fingerprints.json")
	}

	c := &fingerprintCache{path: path, entries: make(map[string]string)}
	if b, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(b, &c.entries)
	}
	return c
}

// Seen reports whether fp is already recorded for key.
func (c *fingerprintCache) Seen(key string, fp uuid.UUID) bool {
	return c.entries[key] == fp.String()
}

// Record stores fp under key and persists the cache to disk.
func (c *fingerprintCache) Record(key string, fp uuid.UUID) error {
	c.entries[key] = fp.String()
	b, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, b, 0o644)
}
