package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wanderlens/internal/models"
)

// attractionSelectors are the node classes that count as tourist attractions.
var attractionSelectors = []string{
	`node["tourism"="attraction"]`,
	`node["tourism"="museum"]`,
	`node["tourism"="gallery"]`,
	`node["tourism"="zoo"]`,
	`node["tourism"="theme_park"]`,
	`node["tourism"="monument"]`,
	`node["tourism"="memorial"]`,
	`node["tourism"="viewpoint"]`,
	`node["historic"="monument"]`,
	`node["historic"="castle"]`,
	`node["historic"="palace"]`,
	`node["historic"="ruins"]`,
}

// foodSelectors are the node classes that count as food spots. Coffee-shop
// cafes are excluded at the query level already.
var foodSelectors = []string{
	`node["amenity"="restaurant"]`,
	`node["amenity"="cafe"]["cuisine"!~"coffee_shop"]`,
	`node["amenity"="bar"]`,
}

// Overpass implements the map data source over the Overpass API.
type Overpass struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewOverpass creates a repository against the given interpreter endpoint.
// The client timeout sits above the [timeout:25] the queries request, so the
// server side gets to answer before the client gives up.
func NewOverpass(baseURL string) *Overpass {
	return &Overpass{
		httpClient: &http.Client{Timeout: 35 * time.Second},
		baseURL:    baseURL,
		userAgent:  "WanderLens/1.0",
	}
}

// AttractionNodes fetches raw attraction nodes around the center.
func (r *Overpass) AttractionNodes(ctx context.Context, center models.Coordinate, radiusM int) ([]models.OSMNode, error) {
	return r.runQuery(ctx, aroundQuery(attractionSelectors, center, radiusM))
}

// FoodNodes fetches raw food spot nodes around the center.
func (r *Overpass) FoodNodes(ctx context.Context, center models.Coordinate, radiusM int) ([]models.OSMNode, error) {
	return r.runQuery(ctx, aroundQuery(foodSelectors, center, radiusM))
}

// aroundQuery renders an Overpass QL union of the selectors, each bounded to
// the same around-circle.
func aroundQuery(selectors []string, center models.Coordinate, radiusM int) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, sel := range selectors {
		fmt.Fprintf(&b, "  %s(around:%d,%.6f,%.6f);\n", sel, radiusM, center.Lat, center.Lon)
	}
	b.WriteString(");\nout;")
	return b.String()
}

type overpassElement struct {
	ID   int64             `json:"id"`
	Lat  *float64          `json:"lat"`
	Lon  *float64          `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

func (r *Overpass) runQuery(ctx context.Context, query string) ([]models.OSMNode, error) {
	form := url.Values{"data": {query}}

	resp, err := r.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("repository: failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", r.userAgent)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("repository: overpass query failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("repository: failed to decode overpass response: %w", err)
	}

	// Ways and relations come back without node coordinates; skip them.
	nodes := make([]models.OSMNode, 0, len(decoded.Elements))
	for _, el := range decoded.Elements {
		if el.Lat == nil || el.Lon == nil {
			continue
		}
		nodes = append(nodes, models.OSMNode{ID: el.ID, Lat: *el.Lat, Lon: *el.Lon, Tags: el.Tags})
	}
	return nodes, nil
}

// statusError is a non-2xx reply from the interpreter.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("overpass replied %d: %s", e.Code, e.Body)
}

func (r *Overpass) do(req *http.Request) (*http.Response, error) {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// replies) with exponential backoff while respecting context cancellation.
// Overpass rate-limits aggressively, so a little patience goes a long way.
func (r *Overpass) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 500 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := r.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var se *statusError
		if errors.As(err, &se) {
			switch se.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				retry = true
			}
		}
		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}
