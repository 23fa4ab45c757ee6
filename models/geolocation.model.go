package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// IPGeolocation caches the resolved location for one public IP address.
// Exactly one row exists per address; refreshes overwrite in place.
type IPGeolocation struct {
	gorm.Model
	IPAddress   string   `gorm:"size:45;uniqueIndex;not null" json:"ip_address"`
	Country     string   `gorm:"size:100;index" json:"country"`
	CountryCode string   `gorm:"size:10" json:"country_code"`
	Region      string   `gorm:"size:100" json:"region"`
	RegionName  string   `gorm:"size:100" json:"region_name"`
	City        string   `gorm:"size:100;index" json:"city"`
	ZipCode     string   `gorm:"size:20" json:"zip_code"`
	Latitude    *float64 `json:"latitude"` // Lookup may succeed without coordinates
	Longitude   *float64 `json:"longitude"`
	Timezone    string   `gorm:"size:50" json:"timezone"`
	ISP         string   `gorm:"size:200" json:"isp"`
	Org         string   `gorm:"size:200" json:"org"`
	ASName      string   `gorm:"size:200" json:"as_name"`
	IsMobile    bool     `gorm:"default:false" json:"is_mobile"`
	IsProxy     bool     `gorm:"default:false" json:"is_proxy"`
	IsHosting   bool     `gorm:"default:false" json:"is_hosting"`

	// Drives the 24h freshness check; stamped on every refresh
	LastUpdated time.Time `gorm:"index" json:"last_updated"`
}

// LocationDisplay returns a "City, Region, Country" string for logs and responses.
func (g *IPGeolocation) LocationDisplay() string {
	parts := []string{}
	for _, p := range []string{g.City, g.RegionName, g.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, ", ")
}
