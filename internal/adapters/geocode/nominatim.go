package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coursedesk/internal/domain/geo"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// nominatimUserAgent identifies us to the Nominatim operators, who reject
// anonymous clients.
const nominatimUserAgent = "coursedesk/1.0"

// NominatimResolver resolves addresses against a Nominatim search endpoint.
type NominatimResolver struct {
	baseURL string
	client  *http.Client
}

// NewNominatimResolver creates a resolver against the given base URL. An
// empty baseURL targets the public OpenStreetMap instance.
func NewNominatimResolver(baseURL string) *NominatimResolver {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve queries the search endpoint for the postal code and city.
// PRE: At least one of postalCode and city is non-empty
// POST: Returns the first match's coordinate, or found=false on no match
func (r *NominatimResolver) Resolve(ctx context.Context, postalCode, city string) (geo.Coordinate, bool, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	if postalCode != "" {
		q.Set("postalcode", postalCode)
	}
	if city != "" {
		q.Set("city", city)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return geo.Coordinate{}, false, err
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, false, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	// Nominatim returns coordinates as strings.
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("nominatim response decode failed: %w", err)
	}
	if len(results) == 0 {
		slog.Debug("geocode_event", "event", "no_match", "postal_code", postalCode, "city", city)
		return geo.Coordinate{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("nominatim latitude parse failed: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Coordinate{}, false, fmt.Errorf("nominatim longitude parse failed: %w", err)
	}

	return geo.Coordinate{Lat: lat, Lon: lon}, true, nil
}
