package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/couchcryptid/crisis-locator/internal/domain"
)

// Report lists the problems found in one category's catalog file.
type Report struct {
	Category domain.Category
	Items    int
	Missing  bool
	Problems []string
}

// Passed reports whether the file had no problems.
func (r Report) Passed() bool { return len(r.Problems) == 0 }

func (r *Report) errorf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Validate checks every category's catalog file without the lenient
// filtering ListItems applies: unknown or mismatched categories, empty or
// duplicate ids, empty names and out-of-range coordinates are all reported.
func (s *Source) Validate(_ context.Context) ([]Report, error) {
	reports := make([]Report, 0, len(domain.Categories()))
	for _, category := range domain.Categories() {
		report := Report{Category: category}

		data, err := os.ReadFile(s.Path(category))
		if errors.Is(err, fs.ErrNotExist) {
			report.Missing = true
			reports = append(reports, report)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", category, err)
		}

		var items []domain.Item
		if err := json.Unmarshal(data, &items); err != nil {
			report.errorf("unparsable: %v", err)
			reports = append(reports, report)
			continue
		}
		report.Items = len(items)
		checkItems(&report, category, items)
		reports = append(reports, report)
	}
	return reports, nil
}

func checkItems(report *Report, category domain.Category, items []domain.Item) {
	seen := make(map[string]int, len(items))
	for i, item := range items {
		ref := fmt.Sprintf("item %d", i)
		if item.ID != "" {
			ref = fmt.Sprintf("item %d (%s)", i, item.ID)
		}

		switch {
		case item.ID == "":
			report.errorf("%s: empty id", ref)
		case seen[item.ID] > 0:
			report.errorf("%s: duplicate id, first seen at item %d", ref, seen[item.ID]-1)
		default:
			seen[item.ID] = i + 1
		}

		if strings.TrimSpace(item.Name) == "" {
			report.errorf("%s: empty name", ref)
		}
		if item.Category != "" {
			if _, err := domain.ParseCategory(string(item.Category)); err != nil {
				report.errorf("%s: %v", ref, err)
			} else if item.Category != category {
				report.errorf("%s: category %s in %s catalog", ref, item.Category, category)
			}
		}
		if item.Lat < -90 || item.Lat > 90 {
			report.errorf("%s: lat %.6f out of range", ref, item.Lat)
		}
		if item.Lng < -180 || item.Lng > 180 {
			report.errorf("%s: lng %.6f out of range", ref, item.Lng)
		}
	}
}
