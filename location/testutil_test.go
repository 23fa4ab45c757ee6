package location

import (
	"context"
	"testing"

	"rollcall/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.IPGeolocation{},
		&models.Geofence{},
		&models.LocationEvent{},
		&models.LocationAlert{},
	))
	return db
}

// fakeProvider counts external calls so tests can assert the cache-first
// contract without any network access.
type fakeProvider struct {
	calls int
	resp  *LookupResponse
	err   error
}

func (f *fakeProvider) Lookup(ctx context.Context, ip string) (*LookupResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// blockingProvider waits for context cancellation, imitating a lookup
// service that never answers.
type blockingProvider struct {
	calls int
}

func (b *blockingProvider) Lookup(ctx context.Context, ip string) (*LookupResponse, error) {
	b.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func successResponse(city, country string) *LookupResponse {
	lat, lon := 6.5244, 3.3792
	return &LookupResponse{
		Status:      "success",
		Country:     country,
		CountryCode: "NG",
		Region:      "LA",
		RegionName:  "Lagos",
		City:        city,
		Zip:         "100001",
		Lat:         &lat,
		Lon:         &lon,
		Timezone:    "Africa/Lagos",
		ISP:         "Test ISP",
		Org:         "Test Org",
		AS:          "AS1234",
	}
}

func floatPtr(v float64) *float64 { return &v }
func uintPtr(v uint) *uint        { return &v }
