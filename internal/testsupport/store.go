package testsupport

import (
	"testing"

	"exifglass/internal/config"
	"exifglass/internal/tagcache"
)

// MustOpenCache opens a tagcache.Cache for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *tagcache.Cache {
	t.Helper()
	cache, err := tagcache.Open(cfg)
	if err != nil {
		t.Fatalf("tagcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Close()
	})
	return cache
}
