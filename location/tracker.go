package location

import (
	"context"
	"errors"
	"log"
	"time"

	"rollcall/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Boundary validation errors
var (
	ErrInvalidEventKind   = errors.New("event kind must be login or attendance")
	ErrInvalidCoordinates = errors.New("device coordinates out of WGS84 range")
	ErrMissingIdentity    = errors.New("event needs a user id or a member phone")
)

// RecordInput carries one observed event into the tracker.
type RecordInput struct {
	Kind        string
	UserID      *uint
	MemberPhone string
	MemberName  string
	ServiceName string

	IPAddress string
	UserAgent string

	DeviceLatitude  *float64
	DeviceLongitude *float64
	GPSAccuracy     *float64

	IsSuccessful *bool // logins; nil means successful
}

// Tracker records location events. IP resolution and geofence validation
// are best-effort enrichment: their failures are logged, never surfaced,
// and never lose the base event.
type Tracker struct {
	db       *gorm.DB
	resolver *Resolver
	fences   *GeofenceStore
	now      func() time.Time
}

func NewTracker(db *gorm.DB, resolver *Resolver, fences *GeofenceStore) *Tracker {
	return &Tracker{db: db, resolver: resolver, fences: fences, now: time.Now}
}

// WithClock replaces the tracker's clock, for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Record validates the input, resolves the IP fallback location, persists
// the event, then evaluates geofences when both device coordinates are
// present. Recording is deliberately not idempotent: identical calls
// produce distinct rows, and duplicate suppression belongs to the caller.
func (t *Tracker) Record(ctx context.Context, in RecordInput) (*models.LocationEvent, error) {
	if err := t.validate(in); err != nil {
		return nil, err
	}

	res := t.resolver.Resolve(ctx, in.IPAddress)

	event := models.LocationEvent{
		EventUUID:       uuid.New().String(),
		Kind:            in.Kind,
		UserID:          in.UserID,
		MemberPhone:     in.MemberPhone,
		MemberName:      in.MemberName,
		ServiceName:     in.ServiceName,
		IPAddress:       in.IPAddress,
		UserAgent:       in.UserAgent,
		DeviceLatitude:  in.DeviceLatitude,
		DeviceLongitude: in.DeviceLongitude,
		GPSAccuracy:     in.GPSAccuracy,
		IsSuccessful:    in.IsSuccessful == nil || *in.IsSuccessful,
		Timestamp:       t.now(),
	}
	if res.Resolved {
		event.GeolocationID = &res.Location.ID
		event.Geolocation = res.Location
	}

	if err := t.db.Omit(clause.Associations).Create(&event).Error; err != nil {
		return nil, err
	}

	if event.HasDeviceCoordinates() {
		// A failure here leaves the event recorded but unvalidated
		if err := t.validateGeofence(&event); err != nil {
			log.Printf("Geofence validation failed for event %d: %v", event.ID, err)
		}
	} else if res.Resolved {
		log.Printf("IP-based %s event for %s from %s (no GPS)",
			event.Kind, event.IdentityKey(), res.Location.LocationDisplay())
	}

	return &event, nil
}

func (t *Tracker) validate(in RecordInput) error {
	if in.Kind != models.EventKindLogin && in.Kind != models.EventKindAttendance {
		return ErrInvalidEventKind
	}
	if in.UserID == nil && in.MemberPhone == "" {
		return ErrMissingIdentity
	}
	if in.DeviceLatitude != nil && (*in.DeviceLatitude < -90 || *in.DeviceLatitude > 90) {
		return ErrInvalidCoordinates
	}
	if in.DeviceLongitude != nil && (*in.DeviceLongitude < -180 || *in.DeviceLongitude > 180) {
		return ErrInvalidCoordinates
	}
	return nil
}

// validateGeofence fills the geofence fields from a Match call and writes
// only those columns, so the base row is untouched on failure.
func (t *Tracker) validateGeofence(event *models.LocationEvent) error {
	match, err := t.fences.Match(*event.DeviceLatitude, *event.DeviceLongitude)
	if err != nil {
		return err
	}
	if match.State == MatchNoActiveFence {
		// Valid terminal state; the fields stay at their defaults
		return nil
	}

	event.GeofenceID = &match.Fence.ID
	event.Geofence = match.Fence
	event.IsWithinGeofence = match.State == MatchWithin
	distance := match.Distance
	event.DistanceFromSite = &distance

	err = t.db.Model(event).Updates(map[string]interface{}{
		"geofence_id":        event.GeofenceID,
		"is_within_geofence": event.IsWithinGeofence,
		"distance_from_site": event.DistanceFromSite,
	}).Error
	if err != nil {
		return err
	}

	if event.IsWithinGeofence {
		log.Printf("Check-in within geofence '%s' for %s (%.0fm from center)",
			match.Fence.Name, event.IdentityKey(), match.Distance)
	}
	return nil
}
