// Package cache persists the last-known open status of catalog items in a
// single JSON document.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchcryptid/crisis-locator/internal/domain"
	"github.com/couchcryptid/crisis-locator/internal/observability"
)

// Store reads and rewrites the cache document at a fixed path.
type Store struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics

	readFile func(name string) ([]byte, error)

	// mu serializes Commit so concurrent batches never interleave a
	// load-merge-persist cycle on the shared document.
	mu sync.Mutex
}

// NewStore creates a Store for the document at path.
func NewStore(path string, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{path: path, logger: logger, metrics: metrics, readFile: os.ReadFile}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Load reads the document. A missing file is an empty document; an unreadable
// or unparsable one is logged and also treated as empty.
func (s *Store) Load(_ context.Context) domain.CacheDocument {
	doc, err := s.read()
	if err != nil {
		s.logger.Warn("cache read failed, using empty cache", "path", s.path, "error", err)
		s.metrics.CacheLoadErrors.Inc()
		return domain.CacheDocument{}
	}
	return doc
}

// read returns the on-disk document. A missing file is empty and a corrupt
// one is logged and treated as empty; any other read fault is returned.
func (s *Store) read() (domain.CacheDocument, error) {
	data, err := s.readFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.CacheDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var doc domain.CacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("cache document corrupt, using empty cache", "path", s.path, "error", err)
		s.metrics.CacheLoadErrors.Inc()
		return domain.CacheDocument{}, nil
	}
	if doc == nil {
		// A literal "null" document.
		return domain.CacheDocument{}, nil
	}
	return doc, nil
}

// Merge returns a new document equal to doc with every key in updates
// overwritten. Neither argument is modified.
func Merge(doc, updates domain.CacheDocument) domain.CacheDocument {
	out := doc.Clone()
	for id, entry := range updates {
		out[id] = entry
	}
	return out
}

// Persist rewrites the whole document. It writes a temp file in the target
// directory and renames it into place so a concurrent Load never sees a
// partial write.
func (s *Store) Persist(_ context.Context, doc domain.CacheDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}

	s.metrics.CacheEntries.Set(float64(len(doc)))
	return nil
}

// Commit folds updates into the latest on-disk document and persists it. The
// document is re-read under the lock so entries written by other batches since
// this batch's Load are kept. A read fault other than a missing or corrupt
// document aborts the commit and leaves the file as it is. An empty update
// set leaves the file untouched.
func (s *Store) Commit(ctx context.Context, updates domain.CacheDocument) error {
	if len(updates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		s.metrics.CachePersistErrors.Inc()
		return err
	}
	if err := s.Persist(ctx, Merge(current, updates)); err != nil {
		s.metrics.CachePersistErrors.Inc()
		return err
	}
	return nil
}
