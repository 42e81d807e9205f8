package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"wanderlens/internal/models"
)

// ipResponse is the subset of the IP geolocation payload the provider needs.
type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

// IPProvider resolves a coarse position from an IP geolocation endpoint.
// It stands in for device positioning on hardware without a sensor: the
// single-shot request is one GET, the watch is a polling loop.
type IPProvider struct {
	client    *http.Client
	baseURL   string
	pollEvery time.Duration
}

// NewIPProvider creates a provider against a base URL such as
// http://ip-api.com/json.
func NewIPProvider(baseURL string) *IPProvider {
	return &IPProvider{
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		pollEvery: 2 * time.Second,
	}
}

// CurrentPosition performs a single lookup. Accuracy is not reported by IP
// geolocation, so AccuracyM stays 0 (unknown).
func (p *IPProvider) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return Position{}, newError(KindUnknown, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Position{}, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, newError(KindUnavailable, fmt.Errorf("geoip status %d", resp.StatusCode))
	}

	var decoded ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Position{}, newError(KindUnavailable, fmt.Errorf("decode geoip response: %w", err))
	}
	if decoded.Status != "" && decoded.Status != "success" {
		return Position{}, newError(KindUnavailable, fmt.Errorf("geoip lookup failed: %s", decoded.Message))
	}

	coord := models.Coordinate{Lat: decoded.Lat, Lon: decoded.Lon}
	if !coord.Valid() {
		return Position{}, newError(KindUnavailable, fmt.Errorf("geoip returned invalid coordinate %.4f,%.4f", decoded.Lat, decoded.Lon))
	}

	return Position{Coord: coord, At: time.Now()}, nil
}

// WatchPosition polls the endpoint until the watch is stopped or ctx ends.
// Every attempt, success or failure, is delivered as a Fix; stopping the
// watch is the consumer's policy decision.
func (p *IPProvider) WatchPosition(ctx context.Context, opts Options) (Watch, error) {
	w := &ipWatch{
		updates: make(chan Fix, 1),
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(w.updates)
		ticker := time.NewTicker(p.pollEvery)
		defer ticker.Stop()

		for {
			pos, err := p.CurrentPosition(ctx, opts)
			select {
			case w.updates <- Fix{Position: pos, Err: err}:
			case <-w.stopped:
				return
			case <-ctx.Done():
				return
			}

			select {
			case <-ticker.C:
			case <-w.stopped:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return w, nil
}

type ipWatch struct {
	updates  chan Fix
	stopped  chan struct{}
	stopOnce sync.Once
}

func (w *ipWatch) Updates() <-chan Fix { return w.updates }

func (w *ipWatch) Stop() {
	w.stopOnce.Do(func() { close(w.stopped) })
}
