package exiftool

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"exifglass/internal/logging"
)

// Settings is the configuration consumed by a Session.
type Settings struct {
	// Executable is the exiftool path; empty uses DefaultExecutable.
	Executable string
	// Arguments are appended to BaselineArgs on every read.
	Arguments []string
	// ExtractDir receives intermediate files during tag extraction.
	ExtractDir string
	// TempDir holds sanitized copies; empty uses os.TempDir.
	TempDir string
	// Timeout bounds each exiftool run; zero disables it.
	Timeout time.Duration
}

// Cache stores parsed reads so unchanged files can skip exiftool.
type Cache interface {
	Lookup(ctx context.Context, key string) ([]Tag, bool, error)
	Store(ctx context.Context, key string, tags []Tag) error
}

// Option configures a Session.
type Option func(*Session)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(s *Session) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache enables the parsed-read cache.
func WithCache(cache Cache) Option {
	return func(s *Session) {
		s.cache = cache
	}
}

// Session is a single read context. It tracks the original and effective
// paths of the last read, owns the temporary copy made for paths exiftool
// cannot open, and holds the Store of the last successful read.
//
// Operations on a Session are serialized.
type Session struct {
	mu        sync.Mutex
	id        string
	settings  Settings
	exec      Executor
	cache     Cache
	logger    *slog.Logger
	invoker   *Invoker
	extractor *Extractor

	originalPath  string
	effectivePath string
	temporary     bool
	store         *Store
}

// New constructs a Session.
func New(settings Settings, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		settings: settings,
		exec:     commandExecutor{},
		logger:   logging.NewNop(),
		store:    NewStore(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "exiftool").With(logging.String(logging.FieldSessionID, s.id))
	s.invoker = NewInvoker(settings.Executable, settings.Timeout, s.exec)
	s.extractor = NewExtractor(s.invoker, settings.ExtractDir)
	return s
}

// ID returns the session identifier attached to its log lines.
func (s *Session) ID() string {
	return s.id
}

// Executable returns the resolved exiftool path.
func (s *Session) Executable() string {
	return s.invoker.Binary()
}

// CommandLine renders the command a Read of path would run, using the
// unsanitized path.
func (s *Session) CommandLine(path string, extra ...string) string {
	return s.invoker.CommandLine(ReadArgs(path, s.readArgs(extra)))
}

// Store returns the tags of the last successful read.
func (s *Session) Store() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// OriginalPath returns the path supplied to the last read.
func (s *Session) OriginalPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.originalPath
}

// EffectivePath returns the path exiftool was given for the last read.
func (s *Session) EffectivePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectivePath
}

// IsTemporary reports whether EffectivePath is a temp copy owned by the session.
func (s *Session) IsTemporary() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temporary
}

// Read loads path's metadata. The previous temp copy is discarded first. On
// success the session Store is replaced as a whole; on failure or
// cancellation it is left untouched, the new temp copy is removed, and
// OriginalPath goes back to the file the Store describes so ExtractTag keeps
// working on it.
func (s *Session) Read(ctx context.Context, path string, extra ...string) (*Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.originalPath
	s.cleanupLocked()
	if err := ctx.Err(); err != nil {
		s.setPathsLocked(previous, previous, false)
		return nil, err
	}

	logger := s.logger.With(logging.String(logging.FieldFile, path))
	args := s.readArgs(extra)
	started := time.Now()

	key := ""
	if s.cache != nil {
		key = s.cacheKey(path, args)
		if tags, ok := s.lookupCache(ctx, logger, key); ok {
			s.setPathsLocked(path, path, false)
			s.store = NewStore(tags)
			logger.Info("metadata loaded from cache",
				logging.String(logging.FieldEventType, "read_cached"),
				logging.Int("tags", s.store.Len()),
			)
			return s.store, nil
		}
	}

	effective, temporary := s.sanitize(logger, path)
	logger.Debug("running exiftool",
		logging.String(logging.FieldEventType, "read_start"),
		logging.String("command", s.invoker.CommandLine(ReadArgs(effective, args))),
	)

	output, err := s.invoker.Read(ctx, effective, args)
	if err == nil {
		err = ctx.Err()
	}
	var tags []Tag
	if err == nil {
		tags, err = Parse(output, filepath.Base(path))
	}
	if err != nil {
		if temporary {
			s.removeTemp(logger, effective)
		}
		s.setPathsLocked(previous, previous, false)
		if !errors.Is(err, context.Canceled) {
			logger.Warn("metadata read failed",
				logging.String(logging.FieldEventType, "read_failed"),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, readErrorHint(err)),
			)
		}
		return nil, err
	}

	s.setPathsLocked(path, effective, temporary)
	s.store = NewStore(tags)
	logger.Info("metadata loaded",
		logging.String(logging.FieldEventType, "read_complete"),
		logging.Int("tags", s.store.Len()),
		logging.Bool("sanitized", temporary),
		logging.Duration("elapsed", time.Since(started)),
	)

	if s.cache != nil && key != "" {
		if err := s.cache.Store(ctx, key, tags); err != nil {
			logging.WarnWithContext(logger, "metadata cache write failed", "cache_store_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cache.path permissions"),
				logging.String(logging.FieldImpact, "next read of this file runs exiftool again"),
			)
		}
	}
	return s.store, nil
}

// Export writes the current Store to dest in the requested format.
func (s *Session) Export(f Format, dest string) error {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()

	if err := WriteFile(f, store, dest); err != nil {
		return err
	}
	s.logger.Info("metadata exported",
		logging.String(logging.FieldEventType, "export_complete"),
		logging.String("format", f.String()),
		logging.String("destination", dest),
	)
	return nil
}

// ExtractTag writes the binary payload of tagName from the last read file to
// dest. A blank tag name is a no-op.
func (s *Session) ExtractTag(ctx context.Context, tagName, dest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if TagFlagName(tagName) == "" {
		return nil
	}
	if s.originalPath == "" {
		return ErrNoFile
	}
	// Cached reads and paths restored after a failed read have no copy yet.
	if !s.temporary && NeedsSanitizing(s.effectivePath) {
		effective, temporary := s.sanitize(s.logger, s.originalPath)
		s.setPathsLocked(s.originalPath, effective, temporary)
	}

	logger := s.logger.With(logging.String(logging.FieldFile, s.originalPath), logging.String("tag", tagName))
	if err := s.extractor.Extract(ctx, s.effectivePath, tagName, dest); err != nil {
		logger.Warn("tag extraction failed",
			logging.String(logging.FieldEventType, "extract_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the tag holds binary data"),
		)
		return err
	}
	logger.Info("tag extracted",
		logging.String(logging.FieldEventType, "extract_complete"),
		logging.String("destination", dest),
	)
	return nil
}

// Cleanup deletes the temp copy of the last read, if any. It is safe to call
// more than once.
func (s *Session) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
}

func (s *Session) cleanupLocked() {
	if s.temporary && s.effectivePath != "" && s.effectivePath != s.originalPath {
		s.removeTemp(s.logger, s.effectivePath)
	}
	s.setPathsLocked("", "", false)
}

func (s *Session) setPathsLocked(original, effective string, temporary bool) {
	s.originalPath = original
	s.effectivePath = effective
	s.temporary = temporary
}

func (s *Session) readArgs(extra []string) []string {
	args := make([]string, 0, len(s.settings.Arguments)+len(extra))
	args = append(args, s.settings.Arguments...)
	return append(args, extra...)
}

func (s *Session) sanitize(logger *slog.Logger, path string) (string, bool) {
	clean, rewritten, err := sanitizePath(path, s.settings.TempDir)
	if err != nil {
		logging.WarnWithContext(logger, "could not copy file to an exiftool-safe path", "sanitize_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check temp_dir free space and permissions"),
			logging.String(logging.FieldImpact, "exiftool reads the original path and may fail"),
		)
	} else if rewritten {
		logger.Debug("using temp copy for non-latin path", logging.String("temp_path", clean))
	}
	return clean, rewritten
}

func (s *Session) removeTemp(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(logger, "temp copy cleanup failed", "temp_cleanup_failed",
			logging.String("temp_path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "temp file remains on disk"),
		)
	}
}

func (s *Session) lookupCache(ctx context.Context, logger *slog.Logger, key string) ([]Tag, bool) {
	if key == "" {
		return nil, false
	}
	tags, ok, err := s.cache.Lookup(ctx, key)
	if err != nil {
		logging.WarnWithContext(logger, "metadata cache lookup failed", "cache_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "exiftool runs instead"),
		)
		return nil, false
	}
	return tags, ok
}

func (s *Session) cacheKey(path string, args []string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return CacheKey(path, info.Size(), info.ModTime(), s.invoker.Binary(), args)
}

func readErrorHint(err error) string {
	var parseErr *ParseError
	switch {
	case errors.Is(err, ErrToolMissing):
		return "install exiftool or set exiftool.executable"
	case errors.As(err, &parseErr):
		return "check exiftool.arguments"
	case errors.Is(err, context.DeadlineExceeded):
		return "raise exiftool.timeout_seconds"
	default:
		return "check the exiftool error output"
	}
}
