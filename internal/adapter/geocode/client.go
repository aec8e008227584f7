package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mixit-delights/storefront/internal/config"
	"github.com/mixit-delights/storefront/internal/domain"
)

// maxResults caps forward-search suggestions, matching what the picker UI
// can usefully show.
const maxResults = 5

// Client talks to a Nominatim-compatible geocoder. Lookups are best-effort:
// search failures surface as errors, reverse failures degrade to fallback
// names via the Or helpers.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.GeocoderConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// nominatimPlace is the subset of the provider response we use. Nominatim
// sends coordinates as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search resolves a free-text query to at most five candidate locations.
// An empty query returns no results without a provider round trip.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Location, error) {
	if query == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/search?format=json&limit=%d&q=%s",
		c.baseURL, maxResults, url.QueryEscape(query))

	var places []nominatimPlace
	if err := c.fetch(ctx, endpoint, &places); err != nil {
		return nil, fmt.Errorf("geocoder search failed: %w", err)
	}

	var results []domain.Location
	for _, p := range places {
		loc, err := p.toLocation()
		if err != nil {
			continue
		}
		results = append(results, loc)
		if len(results) == maxResults {
			break
		}
	}
	return results, nil
}

// Reverse names a coordinate pair. Callers that must not fail use
// ReverseOr instead.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (domain.Location, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%s&lon=%s",
		c.baseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))

	var place nominatimPlace
	if err := c.fetch(ctx, endpoint, &place); err != nil {
		return domain.Location{}, fmt.Errorf("geocoder reverse failed: %w", err)
	}
	if place.DisplayName == "" {
		return domain.Location{}, fmt.Errorf("geocoder returned no name for %f,%f", lat, lng)
	}

	return domain.Location{
		Lat:         lat,
		Lng:         lng,
		Name:        place.DisplayName,
		DisplayName: place.DisplayName,
	}, nil
}

// ReverseOr resolves a coordinate to a named location, substituting the
// given fallback name when the provider is unreachable or silent. The
// selection flow never blocks on geocoder availability.
func (c *Client) ReverseOr(ctx context.Context, lat, lng float64, fallbackName string) domain.Location {
	loc, err := c.Reverse(ctx, lat, lng)
	if err != nil {
		return domain.Location{Lat: lat, Lng: lng, Name: fallbackName}
	}
	return loc
}

func (c *Client) fetch(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "mixit-storefront/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (p nominatimPlace) toLocation() (domain.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.Location{}, err
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.Location{}, err
	}
	return domain.Location{
		Lat:         lat,
		Lng:         lng,
		Name:        p.DisplayName,
		DisplayName: p.DisplayName,
	}, nil
}
