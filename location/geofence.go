package location

import (
	"math"

	"rollcall/models"

	"gorm.io/gorm"
)

// Match states
const (
	MatchNoActiveFence  = "no_active_fence"
	MatchWithin         = "within"
	MatchNearestOutside = "nearest_outside"
)

// MatchResult is the outcome of matching a coordinate against the active
// fences. Fence and Distance are only set for the within/nearest states.
type MatchResult struct {
	State    string           `json:"state"`
	Fence    *models.Geofence `json:"fence,omitempty"`
	Distance float64          `json:"distance_meters,omitempty"`
}

// GeofenceStore reads fence definitions and matches coordinates against
// them. Every read is a fresh snapshot, so an admin edit mid-match at
// worst makes the result stale by one edit.
type GeofenceStore struct {
	db *gorm.DB
}

func NewGeofenceStore(db *gorm.DB) *GeofenceStore {
	return &GeofenceStore{db: db}
}

// ActiveFences returns every active fence in ascending id order. The
// ordering is what makes Match deterministic: the first containing fence
// by id wins, and nearest-fence ties resolve to the lowest id.
func (s *GeofenceStore) ActiveFences() ([]models.Geofence, error) {
	var fences []models.Geofence
	err := s.db.Where("is_active = ?", true).Order("id asc").Find(&fences).Error
	return fences, err
}

// FenceByID returns one fence, active or not.
func (s *GeofenceStore) FenceByID(id uint) (*models.Geofence, error) {
	var fence models.Geofence
	if err := s.db.First(&fence, id).Error; err != nil {
		return nil, err
	}
	return &fence, nil
}

// Match decides where (lat, lon) stands relative to the active fences:
// inside the first containing fence, outside all fences but nearest to
// one, or nothing when no fence is active. Containment means the
// great-circle distance to the fence center is at most its radius.
func (s *GeofenceStore) Match(lat, lon float64) (MatchResult, error) {
	fences, err := s.ActiveFences()
	if err != nil {
		return MatchResult{}, err
	}
	if len(fences) == 0 {
		return MatchResult{State: MatchNoActiveFence}, nil
	}

	var nearest *models.Geofence
	nearestDist := math.MaxFloat64

	for i := range fences {
		fence := &fences[i]
		dist := HaversineMeters(lat, lon, fence.Latitude, fence.Longitude)
		if dist <= float64(fence.Radius) {
			return MatchResult{State: MatchWithin, Fence: fence, Distance: dist}, nil
		}
		if dist < nearestDist {
			nearest = fence
			nearestDist = dist
		}
	}

	return MatchResult{State: MatchNearestOutside, Fence: nearest, Distance: nearestDist}, nil
}
