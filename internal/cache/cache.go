package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache stores extraction artifacts so re-auditing a report does not
// re-extract its pages.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FileKey generates a cache key from a report file's identity. Size and
// modification time are part of the fingerprint so an edited file never
// serves stale pages.
func FileKey(path string, size int64, modTime time.Time, maxPages int) string {
	raw := fmt.Sprintf("%s|%d|%d|%d", path, size, modTime.UnixNano(), maxPages)
	hash := sha256.Sum256([]byte(raw))
	return "greenwash:v1:" + hex.EncodeToString(hash[:])
}
