package location

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fields requested from the lookup service
const ipAPIFields = "status,message,country,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,org,as,mobile,proxy,hosting"

// LookupProvider resolves a public IP address to raw geolocation fields.
// The Resolver only talks to the external service through this interface
// so the caching and matching logic can be tested without network access.
type LookupProvider interface {
	Lookup(ctx context.Context, ip string) (*LookupResponse, error)
}

// LookupResponse mirrors the JSON body of the ip-api.com lookup endpoint.
type LookupResponse struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	Country     string   `json:"country"`
	CountryCode string   `json:"countryCode"`
	Region      string   `json:"region"`
	RegionName  string   `json:"regionName"`
	City        string   `json:"city"`
	Zip         string   `json:"zip"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Timezone    string   `json:"timezone"`
	ISP         string   `json:"isp"`
	Org         string   `json:"org"`
	AS          string   `json:"as"`
	Mobile      bool     `json:"mobile"`
	Proxy       bool     `json:"proxy"`
	Hosting     bool     `json:"hosting"`
}

// IPAPIProvider queries the free ip-api.com service. The service enforces
// a 45 requests/minute ceiling; the Resolver's cache-first design exists
// to stay under it.
type IPAPIProvider struct {
	client  *resty.Client
	baseURL string
}

// NewIPAPIProvider creates a provider against baseURL (e.g. "http://ip-api.com")
// with a hard per-request timeout.
func NewIPAPIProvider(baseURL string, timeout time.Duration) *IPAPIProvider {
	return &IPAPIProvider{
		client:  resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// Lookup fetches geolocation data for ip. A non-"success" status in the
// response body counts as a failure.
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (*LookupResponse, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("fields", ipAPIFields).
		Get(p.baseURL + "/json/" + ip)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("lookup service returned HTTP %d", resp.StatusCode())
	}

	var out LookupResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("malformed lookup response: %w", err)
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("lookup failed for %s: %s", ip, out.Message)
	}
	return &out, nil
}
