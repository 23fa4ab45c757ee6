package models

import (
	"strings"

	"gorm.io/gorm"
)

// Site types for geofences
const (
	SiteOffice    = "office"
	SiteBranch    = "branch"
	SiteWorkSite  = "site"
	SiteField     = "field"
	SiteRemote    = "remote"
	SiteEvent     = "event"
	SiteWarehouse = "warehouse"
	SiteOther     = "other"
)

// Radius bounds in meters
const (
	MinGeofenceRadius = 10
	MaxGeofenceRadius = 10000
)

// SiteTypes lists every valid geofence category.
var SiteTypes = []string{
	SiteOffice, SiteBranch, SiteWorkSite, SiteField,
	SiteRemote, SiteEvent, SiteWarehouse, SiteOther,
}

// Geofence is an admin-defined circular zone that accepts check-ins.
type Geofence struct {
	gorm.Model
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	SiteType    string `gorm:"size:20;default:'office';index" json:"site_type"`

	// Center coordinates, WGS84
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	// Check-in radius in meters (10-10000)
	Radius uint `gorm:"default:100" json:"radius"`

	Address    string `gorm:"size:500" json:"address"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:100" json:"state"`
	Country    string `gorm:"size:100" json:"country"`
	PostalCode string `gorm:"size:20" json:"postal_code"`

	// No column defaults on the true-flags: gorm omits zero-value fields
	// that carry a default tag, which would flip an explicit false back
	// to true on insert. Defaulting lives in the create path instead.
	IsActive    bool `gorm:"index" json:"is_active"`
	RequireGPS  bool `json:"require_gps"`
	AllowRemote bool `gorm:"default:false" json:"allow_remote"`

	CreatedByID *uint `json:"created_by_id"`
	CreatedBy   *User `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

// ValidSiteType reports whether t is one of the allowed site types.
func ValidSiteType(t string) bool {
	for _, s := range SiteTypes {
		if s == t {
			return true
		}
	}
	return false
}

// FullAddress returns the formatted address metadata for display.
func (g *Geofence) FullAddress() string {
	parts := []string{}
	for _, p := range []string{g.Address, g.City, g.State, g.PostalCode, g.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "No address specified"
	}
	return strings.Join(parts, ", ")
}
