package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// NominatimGeocoder resolves coordinates to place names against a
// Nominatim-compatible reverse endpoint.
type NominatimGeocoder struct {
	client *resty.Client
}

// NewNominatimGeocoder constructs a [ReverseGeocoder] for the given base URL
// (e.g. "https://nominatim.openstreetmap.org").
func NewNominatimGeocoder(baseURL string) *NominatimGeocoder {
	client := resty.New().
		SetBaseURL(strings.TrimRight(strings.TrimSpace(baseURL), "/")).
		SetHeader("User-Agent", "lifelog/1.0")

	return &NominatimGeocoder{client: client}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseGeocode returns a short place label for the coordinates. The city
// (or town/village) plus country is preferred; the full display name is the
// fallback.
func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":    strconv.FormatFloat(lon, 'f', -1, 64),
			"format": "jsonv2",
		}).
		Get("/reverse")
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: http %d", resp.StatusCode())
	}

	var result nominatimResponse
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	locality := result.Address.City
	if locality == "" {
		locality = result.Address.Town
	}
	if locality == "" {
		locality = result.Address.Village
	}
	if locality != "" && result.Address.Country != "" {
		return locality + ", " + result.Address.Country, nil
	}

	return result.DisplayName, nil
}
