// Package catalog reads the static per-category point-of-interest catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/crisis-locator/internal/domain"
)

// Source loads catalog items from <dir>/<category>.json.
type Source struct {
	dir    string
	logger *slog.Logger
}

// NewSource creates a catalog source rooted at dir.
func NewSource(dir string, logger *slog.Logger) *Source {
	return &Source{dir: dir, logger: logger}
}

// Path returns the catalog file backing a category.
func (s *Source) Path(category domain.Category) string {
	return filepath.Join(s.dir, string(category)+".json")
}

// ListItems returns the catalog for one category. A missing file yields an
// empty slice, not an error. Items with an empty id or a category other than
// the file's are skipped; an item without a category inherits the file's.
func (s *Source) ListItems(_ context.Context, category domain.Category) ([]domain.Item, error) {
	data, err := os.ReadFile(s.Path(category))
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", category, err)
	}

	var raw []domain.Item
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", category, err)
	}

	items := make([]domain.Item, 0, len(raw))
	for _, item := range raw {
		if item.ID == "" {
			s.logger.Warn("skipping catalog item without id", "category", category, "name", item.Name)
			continue
		}
		if item.Category == "" {
			item.Category = category
		}
		if item.Category != category {
			s.logger.Warn("skipping catalog item with mismatched category",
				"category", category,
				"item_id", item.ID,
				"item_category", item.Category,
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// CheckReadiness reports whether the catalog directory is readable.
func (s *Source) CheckReadiness(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("catalog dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog dir %s is not a directory", s.dir)
	}
	return nil
}
