package geofenceController

import (
	"net/http/httptest"
	"strings"
	"testing"

	"rollcall/database"
	"rollcall/location"
	"rollcall/models"
	geofenceValidator "rollcall/validators/geofence"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGeofenceApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Geofence{}))

	database.Database = database.DbInstance{Db: db}
	Setup(location.NewGeofenceStore(db), nil)

	app := fiber.New()
	app.Post("/geofence", geofenceValidator.Save(), Create)
	app.Put("/geofence/:id", geofenceValidator.Save(), Update)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) int {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestCreateGeofenceDefaults(t *testing.T) {
	app, db := setupGeofenceApp(t)

	status := doJSON(t, app, "POST", "/geofence",
		`{"name":"Head Office","latitude":6.5244,"longitude":3.3792}`)
	require.Equal(t, fiber.StatusCreated, status)

	var fence models.Geofence
	require.NoError(t, db.First(&fence).Error)
	assert.Equal(t, models.SiteOffice, fence.SiteType)
	assert.Equal(t, uint(100), fence.Radius)
	assert.True(t, fence.IsActive)
	assert.True(t, fence.RequireGPS)
	assert.False(t, fence.AllowRemote)
}

func TestCreateGeofencePersistsExplicitFalseFlags(t *testing.T) {
	app, db := setupGeofenceApp(t)

	status := doJSON(t, app, "POST", "/geofence",
		`{"name":"Dormant Site","latitude":6.5244,"longitude":3.3792,"is_active":false,"require_gps":false}`)
	require.Equal(t, fiber.StatusCreated, status)

	var fence models.Geofence
	require.NoError(t, db.First(&fence).Error)
	assert.False(t, fence.IsActive, "explicit false must survive the insert")
	assert.False(t, fence.RequireGPS, "explicit false must survive the insert")
}

func TestUpdateGeofenceKeepsOmittedFields(t *testing.T) {
	app, db := setupGeofenceApp(t)

	fence := models.Geofence{
		Name:      "HQ",
		SiteType:  models.SiteBranch,
		Latitude:  6.5244,
		Longitude: 3.3792,
		Radius:    250,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&fence).Error)

	status := doJSON(t, app, "PUT", "/geofence/1",
		`{"name":"HQ renamed","latitude":6.5244,"longitude":3.3792}`)
	require.Equal(t, fiber.StatusOK, status)

	var updated models.Geofence
	require.NoError(t, db.First(&updated, fence.ID).Error)
	assert.Equal(t, "HQ renamed", updated.Name)
	assert.Equal(t, uint(250), updated.Radius, "omitted radius must keep its stored value")
	assert.Equal(t, models.SiteBranch, updated.SiteType, "omitted site_type must keep its stored value")
}

func TestUpdateGeofenceOverwritesProvidedFields(t *testing.T) {
	app, db := setupGeofenceApp(t)

	fence := models.Geofence{
		Name:      "HQ",
		SiteType:  models.SiteOffice,
		Latitude:  6.5244,
		Longitude: 3.3792,
		Radius:    100,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&fence).Error)

	status := doJSON(t, app, "PUT", "/geofence/1",
		`{"name":"HQ","latitude":6.5244,"longitude":3.3792,"radius":500,"site_type":"warehouse","is_active":false}`)
	require.Equal(t, fiber.StatusOK, status)

	var updated models.Geofence
	require.NoError(t, db.First(&updated, fence.ID).Error)
	assert.Equal(t, uint(500), updated.Radius)
	assert.Equal(t, models.SiteWarehouse, updated.SiteType)
	assert.False(t, updated.IsActive)
}
