package trackController

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"rollcall/database"
	"rollcall/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHistoryApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.IPGeolocation{}, &models.Geofence{}, &models.LocationEvent{}))

	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/track/history", History)
	return app, db
}

func seedLoginEvents(t *testing.T, db *gorm.DB, userID uint, n int) {
	t.Helper()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		uid := userID
		event := models.LocationEvent{
			EventUUID:    uuid.New().String(),
			Kind:         models.EventKindLogin,
			UserID:       &uid,
			IPAddress:    "203.0.113.10",
			IsSuccessful: true,
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&event).Error)
	}
}

type historyEnvelope struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    []models.LocationEvent `json:"data"`
}

func fetchHistory(t *testing.T, app *fiber.App, target string) historyEnvelope {
	t.Helper()

	req := httptest.NewRequest("GET", target, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope historyEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestHistoryPaging(t *testing.T) {
	app, db := setupHistoryApp(t)
	seedLoginEvents(t, db, 1, 5)

	first := fetchHistory(t, app, "/track/history?user_id=1&limit=2")
	require.Len(t, first.Data, 2)

	second := fetchHistory(t, app, "/track/history?user_id=1&limit=2&page=2")
	require.Len(t, second.Data, 2)

	third := fetchHistory(t, app, "/track/history?user_id=1&limit=2&page=3")
	require.Len(t, third.Data, 1)

	// Newest first across consecutive pages, no overlap
	assert.True(t, first.Data[1].Timestamp.After(second.Data[0].Timestamp))
	assert.True(t, second.Data[1].Timestamp.After(third.Data[0].Timestamp))
}

func TestHistoryInvalidPageFallsBackToFirst(t *testing.T) {
	app, db := setupHistoryApp(t)
	seedLoginEvents(t, db, 1, 3)

	envelope := fetchHistory(t, app, "/track/history?user_id=1&limit=2&page=bogus")
	require.Len(t, envelope.Data, 2)

	fresh := fetchHistory(t, app, fmt.Sprintf("/track/history?user_id=%d&limit=2", 1))
	assert.Equal(t, fresh.Data[0].EventUUID, envelope.Data[0].EventUUID)
}
