package models

import (
	"gorm.io/gorm"
)

// Anomaly rules
const (
	AlertImpossibleTravel = "impossible_travel"
	AlertProxyVPN         = "proxy_vpn"
	AlertDatacenterIP     = "datacenter_ip"
)

// LocationAlert is a persisted advisory signal produced by the anomaly
// scanner. Alerts never block the events that triggered them; delivery
// (dashboard, email) is handled by external consumers.
type LocationAlert struct {
	gorm.Model
	Rule     string `gorm:"size:30;index;not null" json:"rule"`
	Identity string `gorm:"size:120;index" json:"identity"`

	EventID       uint  `gorm:"index" json:"event_id"`
	PairedEventID *uint `json:"paired_event_id,omitempty"` // impossible-travel only

	GapMinutes *float64 `json:"gap_minutes,omitempty"`
	Detail     string   `gorm:"size:500" json:"detail"`

	IsAcknowledged bool `gorm:"default:false;index" json:"is_acknowledged"`
}
