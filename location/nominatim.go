package location

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ReverseGeocodeResult is the subset of a Nominatim reverse response used
// to prefill geofence address metadata. Display only; never consulted by
// any matching decision.
type ReverseGeocodeResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road     string `json:"road"`
		City     string `json:"city"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// ReverseGeocoder resolves coordinates to a human-readable address via a
// Nominatim-compatible endpoint.
type ReverseGeocoder struct {
	client  *resty.Client
	baseURL string
}

func NewReverseGeocoder(baseURL string, timeout time.Duration) *ReverseGeocoder {
	return &ReverseGeocoder{
		client:  resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// Reverse fetches the address for (lat, lon).
func (g *ReverseGeocoder) Reverse(ctx context.Context, lat, lon float64) (*ReverseGeocodeResult, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", "rollcall-location-service").
		SetQueryParams(map[string]string{
			"lat":    strconv.FormatFloat(lat, 'f', 7, 64),
			"lon":    strconv.FormatFloat(lon, 'f', 7, 64),
			"format": "json",
		}).
		Get(g.baseURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reverse geocoder returned HTTP %d", resp.StatusCode())
	}

	var out ReverseGeocodeResult
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("malformed reverse geocode response: %w", err)
	}
	return &out, nil
}
