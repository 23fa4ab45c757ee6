package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"rollcall/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTracker(t *testing.T, provider LookupProvider) (*Tracker, *gorm.DB, *GeofenceStore) {
	t.Helper()
	db := openTestDB(t)
	cache := NewCache(24 * time.Hour)
	resolver := NewResolver(db, cache, provider, 24*time.Hour, time.Second)
	fences := NewGeofenceStore(db)
	tracker := NewTracker(db, resolver, fences)
	return tracker, db, fences
}

func adaCheckIn(lat, lon *float64) RecordInput {
	return RecordInput{
		Kind:            models.EventKindAttendance,
		MemberPhone:     "+2348012345678",
		MemberName:      "Ada",
		ServiceName:     "Sunday Service",
		IPAddress:       "8.8.8.8",
		UserAgent:       "test-agent",
		DeviceLatitude:  lat,
		DeviceLongitude: lon,
	}
}

func TestRecordCheckInAtFenceCenter(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, db, fences := newTestTracker(t, provider)
	fence := seedFence(t, fences, "HQ", 6.5244, 3.3792, 100, true)

	event, err := tracker.Record(context.Background(), adaCheckIn(floatPtr(6.5244), floatPtr(3.3792)))
	require.NoError(t, err)

	var saved models.LocationEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.True(t, saved.IsWithinGeofence)
	require.NotNil(t, saved.GeofenceID)
	assert.Equal(t, fence.ID, *saved.GeofenceID)
	require.NotNil(t, saved.DistanceFromSite)
	assert.InDelta(t, 0, *saved.DistanceFromSite, 1)
	require.NotNil(t, saved.GeolocationID)
}

func TestRecordCheckInWithoutCoordinatesSkipsGeofence(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, db, fences := newTestTracker(t, provider)
	seedFence(t, fences, "HQ", 6.5244, 3.3792, 100, true)

	event, err := tracker.Record(context.Background(), adaCheckIn(nil, nil))
	require.NoError(t, err)

	var saved models.LocationEvent
	require.NoError(t, db.Preload("Geolocation").First(&saved, event.ID).Error)

	// IP fallback populated, geofence fields untouched
	require.NotNil(t, saved.Geolocation)
	assert.Equal(t, "Lagos", saved.Geolocation.City)
	assert.Nil(t, saved.GeofenceID)
	assert.False(t, saved.IsWithinGeofence)
	assert.Nil(t, saved.DistanceFromSite)
}

func TestRecordOutsideAllFencesAttachesNearest(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, db, fences := newTestTracker(t, provider)
	fence := seedFence(t, fences, "HQ", 6.5244, 3.3792, 100, true)

	event, err := tracker.Record(context.Background(), adaCheckIn(floatPtr(6.5244+lat500m), floatPtr(3.3792)))
	require.NoError(t, err)

	var saved models.LocationEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.False(t, saved.IsWithinGeofence)
	require.NotNil(t, saved.GeofenceID)
	assert.Equal(t, fence.ID, *saved.GeofenceID)
	require.NotNil(t, saved.DistanceFromSite)
	assert.InDelta(t, 500, *saved.DistanceFromSite, 10)
}

func TestRecordNoActiveFenceLeavesFieldsUnevaluated(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, db, _ := newTestTracker(t, provider)

	event, err := tracker.Record(context.Background(), adaCheckIn(floatPtr(6.5244), floatPtr(3.3792)))
	require.NoError(t, err)

	var saved models.LocationEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Nil(t, saved.GeofenceID)
	assert.False(t, saved.IsWithinGeofence)
	assert.Nil(t, saved.DistanceFromSite)
}

func TestRecordResolverFailureStillRecordsEvent(t *testing.T) {
	provider := &fakeProvider{err: errors.New("service unavailable")}
	tracker, db, _ := newTestTracker(t, provider)

	event, err := tracker.Record(context.Background(), adaCheckIn(nil, nil))
	require.NoError(t, err)

	var saved models.LocationEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Nil(t, saved.GeolocationID)
	assert.Equal(t, "8.8.8.8", saved.IPAddress)
}

func TestRecordIsNotIdempotent(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, db, _ := newTestTracker(t, provider)

	input := adaCheckIn(nil, nil)
	first, err := tracker.Record(context.Background(), input)
	require.NoError(t, err)
	second, err := tracker.Record(context.Background(), input)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.EventUUID, second.EventUUID)

	var count int64
	require.NoError(t, db.Model(&models.LocationEvent{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRecordLoginEvent(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, db, _ := newTestTracker(t, provider)

	failed := false
	event, err := tracker.Record(context.Background(), RecordInput{
		Kind:         models.EventKindLogin,
		UserID:       uintPtr(42),
		IPAddress:    "8.8.8.8",
		UserAgent:    "test-agent",
		IsSuccessful: &failed,
	})
	require.NoError(t, err)

	var saved models.LocationEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, models.EventKindLogin, saved.Kind)
	require.NotNil(t, saved.UserID)
	assert.EqualValues(t, 42, *saved.UserID)
	assert.False(t, saved.IsSuccessful)
	assert.Equal(t, "user:42", saved.IdentityKey())
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, _, _ := newTestTracker(t, provider)

	_, err := tracker.Record(context.Background(), RecordInput{Kind: "bogus", MemberPhone: "+234"})
	assert.ErrorIs(t, err, ErrInvalidEventKind)

	_, err = tracker.Record(context.Background(), RecordInput{Kind: models.EventKindAttendance})
	assert.ErrorIs(t, err, ErrMissingIdentity)

	bad := adaCheckIn(floatPtr(91), floatPtr(3.3792))
	_, err = tracker.Record(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	bad = adaCheckIn(floatPtr(6.5244), floatPtr(181))
	_, err = tracker.Record(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	// Rejected events leave nothing behind
	assert.Equal(t, 0, provider.calls)
}

func TestEventSurvivesGeolocationDeletion(t *testing.T) {
	provider := &fakeProvider{resp: successResponse("Lagos", "Nigeria")}
	tracker, db, _ := newTestTracker(t, provider)

	event, err := tracker.Record(context.Background(), adaCheckIn(nil, nil))
	require.NoError(t, err)
	require.NotNil(t, event.GeolocationID)

	// Hard-delete the cached geolocation row; the event must survive
	require.NoError(t, db.Unscoped().Delete(&models.IPGeolocation{}, *event.GeolocationID).Error)

	var saved models.LocationEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "+2348012345678", saved.MemberPhone)
}
