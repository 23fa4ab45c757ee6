package utils

import (
	"log"
	"time"

	"rollcall/config"
	"rollcall/database"
	"rollcall/location"
	"rollcall/models"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[ANOMALY-SCANNER %s] %s", time.Now().Format(time.RFC3339), message)
}

// scanRecentEvents loads every event in the lookback window, groups them
// by identity, and runs the detector over each group. Events for one
// identity are read in a single timestamp-descending order so consecutive
// pairs line up for the travel rule.
func scanRecentEvents() {
	db := database.Database.Db
	since := time.Now().Add(-config.AppConfig.AnomalyScanLookback)

	var events []models.LocationEvent
	if err := db.Preload("Geolocation").
		Where("timestamp >= ?", since).
		Order("timestamp desc").
		Find(&events).Error; err != nil {
		logScheduler("Error fetching recent events: " + err.Error())
		return
	}

	byIdentity := make(map[string][]models.LocationEvent)
	for _, event := range events {
		key := event.IdentityKey()
		byIdentity[key] = append(byIdentity[key], event)
	}

	detector := location.AnomalyDetector{}
	created := 0
	for identity, identityEvents := range byIdentity {
		for _, alert := range detector.Scan(identity, identityEvents) {
			if persistAlert(alert) {
				created++
			}
		}
	}

	if created > 0 {
		log.Printf("[ANOMALY-SCANNER] %d new alert(s) created", created)
	}
}

// persistAlert writes one alert row unless an identical one already
// exists from a previous scan of the same window. Returns true when a
// row was created.
func persistAlert(alert location.Alert) bool {
	db := database.Database.Db

	query := db.Model(&models.LocationAlert{}).
		Where("rule = ? AND event_id = ?", alert.Rule, alert.Event.ID)
	if alert.PairedEvent != nil {
		query = query.Where("paired_event_id = ?", alert.PairedEvent.ID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logScheduler("Error checking existing alerts: " + err.Error())
		return false
	}
	if count > 0 {
		return false
	}

	row := models.LocationAlert{
		Rule:     alert.Rule,
		Identity: alert.Identity,
		EventID:  alert.Event.ID,
		Detail:   alert.Detail,
	}
	if alert.PairedEvent != nil {
		pairedID := alert.PairedEvent.ID
		gap := alert.GapMinutes
		row.PairedEventID = &pairedID
		row.GapMinutes = &gap
	}

	if err := db.Create(&row).Error; err != nil {
		logScheduler("Error saving alert: " + err.Error())
		return false
	}
	return true
}

// InitializeAnomalyScheduler starts the periodic anomaly scan.
func InitializeAnomalyScheduler() *cron.Cron {
	logScheduler("Initializing anomaly scheduler...")

	c := cron.New()
	if _, err := c.AddFunc(config.AppConfig.AnomalyScanCron, scanRecentEvents); err != nil {
		logScheduler("Invalid ANOMALY_SCAN_CRON expression, scheduler disabled: " + err.Error())
		return c
	}
	c.Start()

	logScheduler("Anomaly scheduler started - " + config.AppConfig.AnomalyScanCron)
	return c
}
