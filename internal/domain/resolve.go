package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// Outcome names the source of an item's resolved status.
type Outcome string

const (
	OutcomeLive   Outcome = "live"
	OutcomeCache  Outcome = "cache"
	OutcomeStatic Outcome = "static"
)

// Resolution is the result of resolving one item within a batch.
type Resolution struct {
	Item    Item
	Entry   *CacheEntry // set only when a live lookup produced a known status
	Outcome Outcome
	Debug   DiagnosticRecord
}

// ResolveStatus determines an item's open status. A known live result wins;
// otherwise the prior cache entry is used, then the catalog default. Faults
// while resolving, including panics from the lookup, are confined to this item
// and recorded in the diagnostic record.
func ResolveStatus(ctx context.Context, item Item, lookup StatusLookup, prior CacheDocument, logger *slog.Logger) (res Resolution) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		logger.Error("resolve item panicked",
			"item_id", item.ID,
			"category", item.Category,
			"panic", r,
		)
		debug := res.Debug
		res = fallbackStatus(item, prior)
		res.Debug = debug
		res.Debug.Error = fmt.Sprint(r)
	}()

	if lookup == nil {
		res = fallbackStatus(item, prior)
		res.Debug.Method = MethodNoKey
		return res
	}

	result, err := lookup.Lookup(ctx, LookupQuery{
		Name:    item.Name,
		Address: item.Address,
		Lat:     item.Lat,
		Lng:     item.Lng,
	})
	debug := DiagnosticRecord{PlaceID: result.PlaceID, Method: result.Method}
	if err != nil {
		debug.Error = err.Error()
	}

	if result.OpenNow.Known() {
		item.OpenNow = result.OpenNow
		return Resolution{
			Item: item,
			Entry: &CacheEntry{
				OpenNow:     result.OpenNow,
				LastUpdated: Now().UTC(),
				PlaceID:     result.PlaceID,
				Method:      result.Method,
			},
			Outcome: OutcomeLive,
			Debug:   debug,
		}
	}

	res = fallbackStatus(item, prior)
	res.Debug = debug
	return res
}

// fallbackStatus applies the prior cache entry if one exists, else leaves the
// catalog default in place.
func fallbackStatus(item Item, prior CacheDocument) Resolution {
	if entry, ok := prior[item.ID]; ok {
		item.OpenNow = entry.OpenNow
		return Resolution{Item: item, Outcome: OutcomeCache}
	}
	return Resolution{Item: item, Outcome: OutcomeStatic}
}
