package domain

import "time"

// Item is a point of interest from the static catalog.
type Item struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Address  string     `json:"address,omitempty"`
	Category Category   `json:"category"`
	Lat      float64    `json:"lat"`
	Lng      float64    `json:"lng"`
	OpenNow  OpenStatus `json:"openNow"`
	Source   string     `json:"source,omitempty"` // provenance, e.g. "seed", "places"
}

// CacheEntry is the last-known status of one item, keyed by Item.ID.
type CacheEntry struct {
	OpenNow     OpenStatus `json:"openNow"`
	LastUpdated time.Time  `json:"lastUpdated"`
	PlaceID     string     `json:"placeId,omitempty"`
	Method      Method     `json:"method"`
}

// CacheDocument maps item id to its last-known status. It is loaded and
// rewritten as a whole.
type CacheDocument map[string]CacheEntry

// Clone returns a shallow copy safe to mutate without touching the receiver.
func (d CacheDocument) Clone() CacheDocument {
	out := make(CacheDocument, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DiagnosticRecord is the per-item trace of one batch. It is never persisted.
type DiagnosticRecord struct {
	PlaceID string `json:"placeId,omitempty"`
	Method  Method `json:"method,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchMeta summarizes one batch for the caller.
type BatchMeta struct {
	KeyPresent   bool                        `json:"keyPresent"`
	UpdatedCount int                         `json:"updatedCount"`
	PerItemDebug map[string]DiagnosticRecord `json:"perItemDebug"`
}

// BatchResult is the enriched catalog returned for one category.
type BatchResult struct {
	Results []Item    `json:"results"`
	Meta    BatchMeta `json:"meta"`
}

// StatusChange is a status produced by a live lookup during a batch, emitted
// to downstream consumers after the batch completes.
type StatusChange struct {
	ItemID     string     `json:"itemId"`
	Category   Category   `json:"category"`
	Name       string     `json:"name"`
	OpenNow    OpenStatus `json:"openNow"`
	PlaceID    string     `json:"placeId,omitempty"`
	Method     Method     `json:"method"`
	ObservedAt time.Time  `json:"observedAt"`
}
