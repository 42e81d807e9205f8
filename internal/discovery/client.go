package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wanderlens/internal/models"
)

// StatusError is a non-2xx reply from the places backend. Any such reply
// counts as a failed lookup for that category.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("places backend replied %d: %s", e.Code, e.Body)
}

// Client calls the places backend over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a client for the backend at baseURL. The transport
// timeout is a safety net above the per-category budget, which is enforced
// by the caller through the request context.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 25 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "WanderLens-Companion/1.0",
	}
}

type attractionsResponse struct {
	Attractions []models.PlaceCandidate `json:"attractions"`
	Count       int                     `json:"count"`
}

type foodResponse struct {
	FoodSpots []models.PlaceCandidate `json:"food_spots"`
	FoodCount int                     `json:"food_count"`
}

// Attractions fetches nearby attractions and tags them with their category.
func (c *Client) Attractions(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error) {
	var decoded attractionsResponse
	if err := c.getJSON(ctx, "/attractions", center, radiusM, &decoded); err != nil {
		return nil, fmt.Errorf("attractions: %w", err)
	}
	for i := range decoded.Attractions {
		decoded.Attractions[i].Category = models.CategoryAttraction
	}
	return decoded.Attractions, nil
}

// FoodSpots fetches nearby food spots and tags them with their category.
func (c *Client) FoodSpots(ctx context.Context, center models.Coordinate, radiusM int) ([]models.PlaceCandidate, error) {
	var decoded foodResponse
	if err := c.getJSON(ctx, "/food", center, radiusM, &decoded); err != nil {
		return nil, fmt.Errorf("food: %w", err)
	}
	for i := range decoded.FoodSpots {
		decoded.FoodSpots[i].Category = models.CategoryFood
	}
	return decoded.FoodSpots, nil
}

func (c *Client) getJSON(ctx context.Context, path string, center models.Coordinate, radiusM int, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(center.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(center.Lon, 'f', -1, 64))
	q.Set("radius", strconv.Itoa(radiusM))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
