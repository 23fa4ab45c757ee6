package location

import (
	"context"
	"errors"
	"log"
	"time"

	"rollcall/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Resolution is the outcome of resolving an IP address. Resolved is false
// for private addresses and for every failure mode; callers must branch
// on it rather than assume Location is set.
type Resolution struct {
	Resolved bool
	Location *models.IPGeolocation
}

// Resolver turns public IP addresses into cached geolocation records.
// Resolution is best-effort: it never returns an error, because location
// enrichment must not block the login or check-in it decorates.
type Resolver struct {
	db       *gorm.DB
	cache    *Cache
	provider LookupProvider
	freshFor time.Duration
	timeout  time.Duration
	now      func() time.Time
}

// NewResolver wires a resolver. freshFor bounds both the cache TTL check
// and the DB freshness window; timeout bounds the external call.
func NewResolver(db *gorm.DB, cache *Cache, provider LookupProvider, freshFor, timeout time.Duration) *Resolver {
	return &Resolver{
		db:       db,
		cache:    cache,
		provider: provider,
		freshFor: freshFor,
		timeout:  timeout,
		now:      time.Now,
	}
}

// WithClock replaces the resolver's clock, for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve looks up ip cache-first:
//  1. private/malformed addresses resolve to nothing, immediately;
//  2. an unexpired cache entry is returned without touching the DB;
//  3. a DB row updated within the freshness window is returned and cached;
//  4. otherwise the external service is called under the timeout, the row
//     upserted keyed by address, and the cache populated.
//
// Every failure degrades to an unresolved Resolution; nothing is retried
// within the same call.
func (r *Resolver) Resolve(ctx context.Context, ip string) Resolution {
	if IsPrivateIP(ip) {
		return Resolution{}
	}

	if geo, ok := r.cache.Get(ip); ok {
		return Resolution{Resolved: true, Location: geo}
	}

	threshold := r.now().Add(-r.freshFor)
	var existing models.IPGeolocation
	err := r.db.Where("ip_address = ? AND last_updated >= ?", ip, threshold).
		First(&existing).Error
	if err == nil {
		r.cache.Set(ip, &existing)
		return Resolution{Resolved: true, Location: &existing}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		// A read failure is not fatal; the external lookup can still serve
		log.Printf("Error checking existing geolocation for %s: %v", ip, err)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.provider.Lookup(lookupCtx, ip)
	if err != nil {
		log.Printf("Geolocation lookup failed for %s: %v", ip, err)
		return Resolution{}
	}

	geo := r.recordFromLookup(ip, resp)
	if err := r.upsert(geo); err != nil {
		log.Printf("Error saving geolocation for %s: %v", ip, err)
		return Resolution{}
	}
	if geo.ID == 0 {
		// The conflict path does not report the existing primary key
		var saved models.IPGeolocation
		if err := r.db.Where("ip_address = ?", ip).First(&saved).Error; err == nil {
			geo = &saved
		}
	}

	r.cache.Set(ip, geo)
	log.Printf("Fetched geolocation for %s: %s", ip, geo.LocationDisplay())
	return Resolution{Resolved: true, Location: geo}
}

func (r *Resolver) recordFromLookup(ip string, resp *LookupResponse) *models.IPGeolocation {
	return &models.IPGeolocation{
		IPAddress:   ip,
		Country:     resp.Country,
		CountryCode: resp.CountryCode,
		Region:      resp.Region,
		RegionName:  resp.RegionName,
		City:        resp.City,
		ZipCode:     resp.Zip,
		Latitude:    resp.Lat,
		Longitude:   resp.Lon,
		Timezone:    resp.Timezone,
		ISP:         resp.ISP,
		Org:         resp.Org,
		ASName:      resp.AS,
		IsMobile:    resp.Mobile,
		IsProxy:     resp.Proxy,
		IsHosting:   resp.Hosting,
		LastUpdated: r.now(),
	}
}

// upsert writes geo keyed by ip_address. Concurrent resolutions of the
// same address may race; last writer wins, which is fine for advisory data.
func (r *Resolver) upsert(geo *models.IPGeolocation) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip_address"}},
		UpdateAll: true,
	}).Create(geo).Error
}
