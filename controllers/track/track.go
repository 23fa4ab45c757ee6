package trackController

import (
	"fmt"
	"log"
	"strconv"

	"rollcall/database"
	"rollcall/location"
	"rollcall/middleware"
	"rollcall/models"
	"rollcall/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

var tracker *location.Tracker

// Setup injects the tracker constructed in main.
func Setup(t *location.Tracker) {
	tracker = t
}

type attendanceRequest struct {
	MemberPhone     string   `json:"member_phone"`
	MemberName      string   `json:"member_name"`
	ServiceName     string   `json:"service_name"`
	DeviceLatitude  *float64 `json:"device_latitude"`
	DeviceLongitude *float64 `json:"device_longitude"`
	GPSAccuracy     *float64 `json:"gps_accuracy"`
}

type loginRequest struct {
	UserID       uint  `json:"user_id"`
	IsSuccessful *bool `json:"is_successful"`
}

// Attendance records a member check-in supplied by the attendance
// collaborator and returns the event plus a human-readable confirmation.
func Attendance(c *fiber.Ctx) error {
	var reqData attendanceRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	event, err := tracker.Record(c.UserContext(), location.RecordInput{
		Kind:            models.EventKindAttendance,
		MemberPhone:     reqData.MemberPhone,
		MemberName:      reqData.MemberName,
		ServiceName:     reqData.ServiceName,
		IPAddress:       utils.ClientIP(c),
		UserAgent:       utils.UserAgent(c),
		DeviceLatitude:  reqData.DeviceLatitude,
		DeviceLongitude: reqData.DeviceLongitude,
		GPSAccuracy:     reqData.GPSAccuracy,
	})
	if err != nil {
		log.Printf("Error recording attendance event: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record check-in!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, confirmationMessage(event), event)
}

// Login records a login audit event for the external auth collaborator.
// No device coordinates are involved; the IP fallback is the only signal.
func Login(c *fiber.Ctx) error {
	var reqData loginRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	event, err := tracker.Record(c.UserContext(), location.RecordInput{
		Kind:         models.EventKindLogin,
		UserID:       &reqData.UserID,
		IPAddress:    utils.ClientIP(c),
		UserAgent:    utils.UserAgent(c),
		IsSuccessful: reqData.IsSuccessful,
	})
	if err != nil {
		log.Printf("Error recording login event: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record login event!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Login event recorded.", event)
}

// History lists an identity's events, newest first.
func History(c *fiber.Ctx) error {
	db := database.Database.Db

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	query := db.Preload("Geolocation").Preload("Geofence").
		Order("timestamp desc").Limit(limit).Offset((page - 1) * limit)

	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	} else if phone := c.Query("member_phone"); phone != "" {
		query = query.Where("member_phone = ?", phone)
	} else {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Provide user_id or member_phone!", nil)
	}

	var events []models.LocationEvent
	if err := query.Find(&events).Error; err != nil {
		log.Printf("Error fetching event history: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch event history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Event history fetched.", events)
}

type placeCount struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// Stats returns dashboard aggregates over recorded events.
func Stats(c *fiber.Ctx) error {
	db := database.Database.Db

	today := now.BeginningOfDay()
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	stats := fiber.Map{}

	counts := map[string]interface{}{}
	for kind, label := range map[string]string{
		models.EventKindLogin:      "logins",
		models.EventKindAttendance: "attendance",
	} {
		var total, todayCount, weekCount, monthCount int64
		db.Model(&models.LocationEvent{}).Where("kind = ?", kind).Count(&total)
		db.Model(&models.LocationEvent{}).Where("kind = ? AND timestamp >= ?", kind, today).Count(&todayCount)
		db.Model(&models.LocationEvent{}).Where("kind = ? AND timestamp >= ?", kind, weekAgo).Count(&weekCount)
		db.Model(&models.LocationEvent{}).Where("kind = ? AND timestamp >= ?", kind, monthAgo).Count(&monthCount)
		counts[label] = fiber.Map{
			"total":      total,
			"today":      todayCount,
			"this_week":  weekCount,
			"this_month": monthCount,
		}
	}
	stats["counts"] = counts

	var topCities []placeCount
	db.Model(&models.LocationEvent{}).
		Joins("JOIN ip_geolocations ON ip_geolocations.id = location_events.geolocation_id").
		Select("ip_geolocations.city as city, ip_geolocations.country as country, count(*) as count").
		Group("ip_geolocations.city, ip_geolocations.country").
		Order("count desc").Limit(10).
		Scan(&topCities)
	stats["top_cities"] = topCities

	var topCountries []placeCount
	db.Model(&models.LocationEvent{}).
		Joins("JOIN ip_geolocations ON ip_geolocations.id = location_events.geolocation_id").
		Select("ip_geolocations.country as country, count(*) as count").
		Group("ip_geolocations.country").
		Order("count desc").Limit(5).
		Scan(&topCountries)
	stats["top_countries"] = topCountries

	var proxyLogins, mobileAttendance int64
	db.Model(&models.LocationEvent{}).
		Joins("JOIN ip_geolocations ON ip_geolocations.id = location_events.geolocation_id").
		Where("location_events.kind = ? AND ip_geolocations.is_proxy = ?", models.EventKindLogin, true).
		Count(&proxyLogins)
	db.Model(&models.LocationEvent{}).
		Joins("JOIN ip_geolocations ON ip_geolocations.id = location_events.geolocation_id").
		Where("location_events.kind = ? AND ip_geolocations.is_mobile = ?", models.EventKindAttendance, true).
		Count(&mobileAttendance)
	stats["proxy_logins"] = proxyLogins
	stats["mobile_attendance"] = mobileAttendance

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Location stats fetched.", stats)
}

// confirmationMessage builds the human-readable check-in verdict line.
func confirmationMessage(event *models.LocationEvent) string {
	if event.HasDeviceCoordinates() {
		switch {
		case event.Geofence != nil && event.IsWithinGeofence:
			return fmt.Sprintf("Checked in at %s (%.0fm from center).",
				event.Geofence.Name, *event.DistanceFromSite)
		case event.Geofence != nil:
			return fmt.Sprintf("Checked in outside all sites; nearest is %s (%.0fm away).",
				event.Geofence.Name, *event.DistanceFromSite)
		default:
			return "Checked in; no active site configured."
		}
	}
	if event.Geolocation != nil {
		return fmt.Sprintf("Checked in from %s (IP-based).", event.Geolocation.LocationDisplay())
	}
	return "Checked in; location unknown."
}
