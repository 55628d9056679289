// Package domain models the crisis-resource catalog and its open-status
// enrichment.
//
// # Catalog
//
// Items are points of interest (shelters, food banks, clinics) loaded from a
// static per-category catalog. Each carries a default "open now" value that is
// used only when nothing better is known.
//
// # Open status
//
// [OpenStatus] is a tri-state: open, closed or unknown. Unknown is the zero
// value and serializes as JSON null. A place that matched but did not publish
// hours is unknown, not closed.
//
// # Resolution order
//
// For every item in a batch, [ResolveStatus] applies the first of:
//
//	1. a live lookup that returned open or closed (recorded as a new CacheEntry)
//	2. the prior CacheEntry for the item id
//	3. the catalog default
//
// The live lookup reports a [Method] tag:
//
//	no-key           no provider credential; no request made
//	findplace        matched by "find place from text"
//	textsearch       matched by text search near the item's coordinates
//	textsearch-none  neither stage found a place
//	error            a provider or transport fault
//
// Only findplace and textsearch results may bump CacheEntry.LastUpdated. A
// fallback value never overwrites a cache entry.
package domain
