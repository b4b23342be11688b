package exiftool

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// CacheKey identifies a read of path by its size, modification time, the
// exiftool binary and the extra arguments. Any change produces a new key.
func CacheKey(path string, size int64, modTime time.Time, binary string, args []string) string {
	parts := []string{
		path,
		strconv.FormatInt(size, 10),
		strconv.FormatInt(modTime.UnixNano(), 10),
		binary,
		strings.Join(args, "\x1f"),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
