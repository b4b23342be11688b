package tagcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"exifglass/internal/config"
	"exifglass/internal/exiftool"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenPath(filepath.Join(t.TempDir(), "cache", "tags.db"))
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func sampleTags() []exiftool.Tag {
	return []exiftool.Tag{
		{Index: 1, ID: "-", Group: "File", Name: "File Name", Value: "photo.jpg"},
		{Index: 2, ID: "0x010f", Group: "EXIF", Name: "Make", Value: "Canon"},
		{Index: 3, ID: "0x0201", Group: "EXIF", Name: "Thumbnail Image", Value: "(Binary data 5120 bytes, use -b option to extract)"},
	}
}

func TestStoreAndLookup(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if _, ok, err := cache.Lookup(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.Store(ctx, "key-1", sampleTags()); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	got, ok, err := cache.Lookup(ctx, "key-1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(sampleTags(), got); diff != "" {
		t.Fatalf("cached tags mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreReplacesExistingEntry(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Store(ctx, "key", sampleTags()); err != nil {
		t.Fatal(err)
	}
	replacement := sampleTags()[:1]
	if err := cache.Store(ctx, "key", replacement); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.Lookup(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(replacement, got); diff != "" {
		t.Fatalf("cached tags mismatch (-want +got):\n%s", diff)
	}

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 || stats.Tags != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestEmptyReadIsCached(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	if err := cache.Store(ctx, "empty", nil); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.Lookup(ctx, "empty")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no tags, got %v", got)
	}
}

func TestPruneRemovesStaleEntries(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }
	if err := cache.Store(ctx, "old", sampleTags()); err != nil {
		t.Fatal(err)
	}

	cache.now = func() time.Time { return base.Add(20 * 24 * time.Hour) }
	if err := cache.Store(ctx, "fresh", sampleTags()); err != nil {
		t.Fatal(err)
	}

	removed, err := cache.Prune(ctx, 10*24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 entry pruned, got %d", removed)
	}
	if _, ok, _ := cache.Lookup(ctx, "old"); ok {
		t.Fatal("expected old entry pruned")
	}
	if _, ok, _ := cache.Lookup(ctx, "fresh"); !ok {
		t.Fatal("expected fresh entry kept")
	}

	var orphans int
	if err := cache.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM tags WHERE cache_key = 'old'`).Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Fatalf("expected tags removed with entry, found %d", orphans)
	}
}

func TestLookupRefreshesAccessTime(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return base }
	if err := cache.Store(ctx, "key", sampleTags()); err != nil {
		t.Fatal(err)
	}
	cache.now = func() time.Time { return base.Add(9 * 24 * time.Hour) }
	if _, ok, err := cache.Lookup(ctx, "key"); err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	cache.now = func() time.Time { return base.Add(15 * 24 * time.Hour) }
	removed, err := cache.Prune(ctx, 10*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Fatalf("expected recently used entry kept, removed %d", removed)
	}
}

func TestClear(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b"} {
		if err := cache.Store(ctx, key, sampleTags()); err != nil {
			t.Fatal(err)
		}
	}
	removed, err := cache.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 0 || stats.Tags != 0 {
		t.Fatalf("expected empty cache, got %+v", stats)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Path = filepath.Join(t.TempDir(), "tags.db")
	ctx := context.Background()

	cache, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := cache.Store(ctx, "key", sampleTags()); err != nil {
		t.Fatal(err)
	}
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(&cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Lookup(ctx, "key"); err != nil || !ok {
		t.Fatalf("expected persisted entry, got ok=%v err=%v", ok, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.db")
	cache, err := OpenPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cache.db.Exec(`UPDATE schema_version SET version = 99`); err != nil {
		t.Fatal(err)
	}
	_ = cache.Close()

	if _, err := OpenPath(path); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}
