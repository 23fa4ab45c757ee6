package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Event kinds
const (
	EventKindLogin      = "login"
	EventKindAttendance = "attendance"
)

// LocationEvent records one observation of where an identity acted from.
// An identity is either a user account (logins) or a member phone+name
// pair (check-ins). The row is written once; only the geofence validation
// fields may be filled in afterwards.
type LocationEvent struct {
	gorm.Model
	EventUUID string `gorm:"size:36;uniqueIndex" json:"event_uuid"`
	Kind      string `gorm:"size:20;index;not null" json:"kind"`

	// Identity: UserID for logins, MemberPhone+MemberName for check-ins
	UserID      *uint  `gorm:"index" json:"user_id,omitempty"`
	MemberPhone string `gorm:"size:30;index" json:"member_phone,omitempty"`
	MemberName  string `gorm:"size:150" json:"member_name,omitempty"`

	// IP-based fallback location; survives deletion of the cached row
	GeolocationID *uint          `json:"geolocation_id,omitempty"`
	Geolocation   *IPGeolocation `gorm:"constraint:OnDelete:SET NULL" json:"geolocation,omitempty"`

	IPAddress   string `gorm:"size:45;index" json:"ip_address"`
	UserAgent   string `gorm:"size:500" json:"user_agent"`
	ServiceName string `gorm:"size:100" json:"service_name,omitempty"`

	// Device GPS, the primary signal when present
	DeviceLatitude  *float64 `json:"device_latitude,omitempty"`
	DeviceLongitude *float64 `json:"device_longitude,omitempty"`
	GPSAccuracy     *float64 `json:"gps_accuracy,omitempty"` // meters

	// Geofence validation result
	GeofenceID       *uint     `json:"geofence_id,omitempty"`
	Geofence         *Geofence `gorm:"constraint:OnDelete:SET NULL" json:"geofence,omitempty"`
	IsWithinGeofence bool      `gorm:"default:false;index" json:"is_within_geofence"`
	DistanceFromSite *float64  `json:"distance_from_site,omitempty"` // meters

	// No column default: gorm would drop an explicit false on insert.
	// The tracker fills in true when the caller does not say otherwise.
	IsSuccessful bool      `json:"is_successful"` // logins only
	Timestamp    time.Time `gorm:"index" json:"timestamp"`
}

// IdentityKey returns a stable key grouping events that belong to the
// same person, e.g. "user:42" or "member:+2348012345678".
func (e *LocationEvent) IdentityKey() string {
	if e.UserID != nil {
		return fmt.Sprintf("user:%d", *e.UserID)
	}
	return "member:" + e.MemberPhone
}

// HasDeviceCoordinates reports whether both device coordinates are present.
func (e *LocationEvent) HasDeviceCoordinates() bool {
	return e.DeviceLatitude != nil && e.DeviceLongitude != nil
}
