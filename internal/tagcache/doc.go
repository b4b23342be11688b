// Package tagcache persists parsed exiftool reads in SQLite so an unchanged
// file read again with the same arguments skips the external process.
//
// Entries are keyed by exiftool.CacheKey, which folds in the path, size,
// modification time, executable and arguments; a changed file simply misses.
// The database is disposable. Schema changes bump schemaVersion and users
// clear the cache with "exifglass cache clear".
package tagcache
