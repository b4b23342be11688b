package exiftool

import (
	"testing"
	"time"
)

func TestCacheKeyChangesWithInputs(t *testing.T) {
	mod := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	base := CacheKey("/p/a.jpg", 100, mod, "exiftool", []string{"-lang", "en"})
	if base != CacheKey("/p/a.jpg", 100, mod, "exiftool", []string{"-lang", "en"}) {
		t.Fatal("expected stable key")
	}
	variants := []string{
		CacheKey("/p/b.jpg", 100, mod, "exiftool", []string{"-lang", "en"}),
		CacheKey("/p/a.jpg", 101, mod, "exiftool", []string{"-lang", "en"}),
		CacheKey("/p/a.jpg", 100, mod.Add(time.Second), "exiftool", []string{"-lang", "en"}),
		CacheKey("/p/a.jpg", 100, mod, "/opt/exiftool", []string{"-lang", "en"}),
		CacheKey("/p/a.jpg", 100, mod, "exiftool", []string{"-lang en"}),
	}
	for i, key := range variants {
		if key == base {
			t.Fatalf("variant %d produced the base key", i)
		}
	}
}
