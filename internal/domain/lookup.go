package domain

import "context"

// Method records which lookup stage produced a status.
type Method string

const (
	MethodNoKey          Method = "no-key"
	MethodFindPlace      Method = "findplace"
	MethodTextSearch     Method = "textsearch"
	MethodTextSearchNone Method = "textsearch-none"
	MethodError          Method = "error"
)

// Live reports whether the method is a stage that reached the provider and
// matched a place.
func (m Method) Live() bool {
	return m == MethodFindPlace || m == MethodTextSearch
}

// LookupQuery is the search input for one item.
type LookupQuery struct {
	Name    string
	Address string
	Lat     float64
	Lng     float64
}

// LookupResult is the outcome of one lookup. Method is always set.
type LookupResult struct {
	OpenNow OpenStatus
	PlaceID string
	Method  Method
}

// StatusLookup resolves the current open state of a place.
type StatusLookup interface {
	// Lookup always returns a tagged result. A non-nil error accompanies
	// MethodError results and is informational only.
	Lookup(ctx context.Context, q LookupQuery) (LookupResult, error)

	// KeyPresent reports whether a provider credential is configured.
	KeyPresent() bool
}
