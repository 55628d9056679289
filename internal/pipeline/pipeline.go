package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/crisis-locator/internal/domain"
	"github.com/couchcryptid/crisis-locator/internal/observability"
)

// CatalogSource yields the fixed item list for a category.
type CatalogSource interface {
	ListItems(ctx context.Context, category domain.Category) ([]domain.Item, error)
}

// CacheStore loads the last-known statuses and commits new ones.
type CacheStore interface {
	Load(ctx context.Context) domain.CacheDocument
	Commit(ctx context.Context, updates domain.CacheDocument) error
}

// StatusPublisher emits live status changes after a batch.
type StatusPublisher interface {
	PublishStatuses(ctx context.Context, changes []domain.StatusChange) error
}

// Pipeline enriches a category's catalog with open-now status.
type Pipeline struct {
	catalog     CatalogSource
	lookup      domain.StatusLookup
	store       CacheStore
	publisher   StatusPublisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	itemTimeout time.Duration

	// locks serialize batches per category; the category set is closed so
	// the map is never written after construction.
	locks map[domain.Category]*sync.Mutex
}

// New creates a Pipeline. publisher may be nil to disable status events.
// itemTimeout bounds the live lookup for each item; zero disables it.
func New(catalog CatalogSource, lookup domain.StatusLookup, store CacheStore, publisher StatusPublisher,
	logger *slog.Logger, metrics *observability.Metrics, itemTimeout time.Duration) *Pipeline {
	locks := make(map[domain.Category]*sync.Mutex, len(domain.Categories()))
	for _, c := range domain.Categories() {
		locks[c] = &sync.Mutex{}
	}
	return &Pipeline{
		catalog:     catalog,
		lookup:      lookup,
		store:       store,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		itemTimeout: itemTimeout,
		locks:       locks,
	}
}

// KeyPresent reports whether live lookups can reach the provider.
func (p *Pipeline) KeyPresent() bool {
	return p.lookup != nil && p.lookup.KeyPresent()
}

// Enrich runs one batch for category. Items are resolved one at a time, in
// catalog order. The only error is an invalid category; every other fault
// degrades to a fallback value.
func (p *Pipeline) Enrich(ctx context.Context, category domain.Category) (domain.BatchResult, error) {
	lock, ok := p.locks[category]
	if !ok {
		return domain.BatchResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, category)
	}
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	label := string(category)
	p.metrics.BatchesTotal.WithLabelValues(label).Inc()

	items, err := p.catalog.ListItems(ctx, category)
	if err != nil {
		p.logger.Error("catalog load failed, enriching empty catalog", "category", category, "error", err)
		items = nil
	}

	prior := p.store.Load(ctx)

	result := domain.BatchResult{
		Results: make([]domain.Item, 0, len(items)),
		Meta: domain.BatchMeta{
			KeyPresent:   p.KeyPresent(),
			PerItemDebug: make(map[string]domain.DiagnosticRecord, len(items)),
		},
	}
	updates := make(domain.CacheDocument)
	var changes []domain.StatusChange

	for _, item := range items {
		res := p.resolve(ctx, item, prior)

		result.Results = append(result.Results, res.Item)
		result.Meta.PerItemDebug[item.ID] = res.Debug
		p.metrics.ItemsResolved.WithLabelValues(label, string(res.Outcome)).Inc()
		if res.Debug.Error != "" {
			p.metrics.ItemFaults.Inc()
		}

		if res.Entry == nil {
			continue
		}
		updates[item.ID] = *res.Entry
		result.Meta.UpdatedCount++
		changes = append(changes, domain.StatusChange{
			ItemID:     item.ID,
			Category:   category,
			Name:       item.Name,
			OpenNow:    res.Entry.OpenNow,
			PlaceID:    res.Entry.PlaceID,
			Method:     res.Entry.Method,
			ObservedAt: res.Entry.LastUpdated,
		})
	}

	if err := p.store.Commit(ctx, updates); err != nil {
		p.logger.Error("cache persist failed, returning in-memory results",
			"category", category,
			"entries", len(updates),
			"error", err,
		)
	}

	p.publish(ctx, category, changes)

	p.metrics.BatchDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	p.logger.Info("batch complete",
		"category", category,
		"items", len(result.Results),
		"updated", result.Meta.UpdatedCount,
		"key_present", result.Meta.KeyPresent,
		"duration", time.Since(start),
	)
	return result, nil
}

// resolve runs the fallback chain for one item under the per-item timeout.
func (p *Pipeline) resolve(ctx context.Context, item domain.Item, prior domain.CacheDocument) domain.Resolution {
	if p.itemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.itemTimeout)
		defer cancel()
	}
	return domain.ResolveStatus(ctx, item, p.lookup, prior, p.logger)
}

func (p *Pipeline) publish(ctx context.Context, category domain.Category, changes []domain.StatusChange) {
	if p.publisher == nil || len(changes) == 0 {
		return
	}
	if err := p.publisher.PublishStatuses(ctx, changes); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish status changes failed",
			"category", category,
			"changes", len(changes),
			"error", err,
		)
	}
}
