package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/crisis-locator/internal/domain"
	"github.com/couchcryptid/crisis-locator/internal/observability"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Google Places Web Service root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// DefaultSearchRadius is the text-search radius around an item, in metres.
const DefaultSearchRadius = 5000

// Options configures a Client.
type Options struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	RateInterval time.Duration // minimum spacing between provider requests
	SearchRadius int           // metres
}

// Client implements domain.StatusLookup using the Places "find place from
// text" and "text search" endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	radius     int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Places client. An empty APIKey is allowed: every lookup
// then short-circuits to the no-key result without touching the network.
func NewClient(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.SearchRadius <= 0 {
		opts.SearchRadius = DefaultSearchRadius
	}
	limit := rate.Inf
	if opts.RateInterval > 0 {
		limit = rate.Every(opts.RateInterval)
	}
	return &Client{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		radius:  opts.SearchRadius,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
		metrics: metrics,
	}
}

// KeyPresent reports whether an API key is configured.
func (c *Client) KeyPresent() bool {
	return c.apiKey != ""
}

// Lookup resolves the open status of one place. Stages run in order and the
// first to match wins: findplace, then textsearch only when findplace returned
// no candidate at all. A findplace match without hours is still a match.
// Faults never escape as a failed lookup: the result is tagged MethodError and
// the fault is returned alongside it for diagnostics.
func (c *Client) Lookup(ctx context.Context, q domain.LookupQuery) (domain.LookupResult, error) {
	result, err := c.lookup(ctx, q)
	c.metrics.LookupRequests.WithLabelValues(string(result.Method)).Inc()
	return result, err
}

func (c *Client) lookup(ctx context.Context, q domain.LookupQuery) (domain.LookupResult, error) {
	if !c.KeyPresent() {
		return domain.LookupResult{Method: domain.MethodNoKey}, nil
	}

	candidate, found, err := c.findPlace(ctx, q)
	if err != nil {
		c.logger.Warn("findplace lookup failed", "name", q.Name, "error", err)
		return domain.LookupResult{Method: domain.MethodError}, err
	}
	if found {
		return candidate.result(domain.MethodFindPlace), nil
	}

	candidate, found, err = c.textSearch(ctx, q)
	if err != nil {
		c.logger.Warn("textsearch lookup failed", "name", q.Name, "error", err)
		return domain.LookupResult{Method: domain.MethodError}, err
	}
	if found {
		return candidate.result(domain.MethodTextSearch), nil
	}
	return domain.LookupResult{Method: domain.MethodTextSearchNone}, nil
}

// findPlace queries "find place from text" with the name and, when present,
// the address.
func (c *Client) findPlace(ctx context.Context, q domain.LookupQuery) (place, bool, error) {
	input := q.Name
	if q.Address != "" {
		input = q.Name + " " + q.Address
	}
	params := url.Values{
		"input":     {input},
		"inputtype": {"textquery"},
		"fields":    {"place_id,opening_hours"},
		"key":       {c.apiKey},
	}

	var resp findPlaceResponse
	if err := c.doRequest(ctx, "findplace", c.baseURL+"/findplacefromtext/json?"+params.Encode(), &resp); err != nil {
		return place{}, false, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return place{}, false, fmt.Errorf("findplace: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return place{}, false, nil
	}
	return resp.Candidates[0], true, nil
}

// textSearch queries text search with the name, biased to the item's
// coordinates within the configured radius.
func (c *Client) textSearch(ctx context.Context, q domain.LookupQuery) (place, bool, error) {
	params := url.Values{
		"query":    {q.Name},
		"location": {formatLatLng(q.Lat, q.Lng)},
		"radius":   {strconv.Itoa(c.radius)},
		"key":      {c.apiKey},
	}

	var resp textSearchResponse
	if err := c.doRequest(ctx, "textsearch", c.baseURL+"/textsearch/json?"+params.Encode(), &resp); err != nil {
		return place{}, false, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return place{}, false, fmt.Errorf("textsearch: %w", err)
	}
	if len(resp.Results) == 0 {
		return place{}, false, nil
	}
	return resp.Results[0], true, nil
}

func (c *Client) doRequest(ctx context.Context, stage, fullURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter wait: %w", stage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", stage, stripURL(err))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.LookupAPIDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s request: %w", stage, stripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("places API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", stage, err)
	}
	return nil
}

// stripURL drops the request URL from a *url.Error. The URL carries the API
// key and must not reach logs or diagnostics.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// checkStatus maps the provider's status field onto an error. OK and
// ZERO_RESULTS are successes; everything else (REQUEST_DENIED,
// OVER_QUERY_LIMIT, INVALID_REQUEST, ...) is a fault.
func checkStatus(status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	case "":
		return fmt.Errorf("missing status in response")
	}
	if message != "" {
		return fmt.Errorf("status %s: %s", status, message)
	}
	return fmt.Errorf("status %s", status)
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// Places API response types.

type findPlaceResponse struct {
	Candidates   []place `json:"candidates"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

type textSearchResponse struct {
	Results      []place `json:"results"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

type place struct {
	PlaceID      string        `json:"place_id"`
	OpeningHours *openingHours `json:"opening_hours,omitempty"`
}

type openingHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

func (p place) result(method domain.Method) domain.LookupResult {
	var openNow *bool
	if p.OpeningHours != nil {
		openNow = p.OpeningHours.OpenNow
	}
	return domain.LookupResult{
		OpenNow: domain.StatusFromBool(openNow),
		PlaceID: p.PlaceID,
		Method:  method,
	}
}
