package alertController

import (
	"log"
	"strconv"

	"rollcall/database"
	"rollcall/middleware"
	"rollcall/models"

	"github.com/gofiber/fiber/v2"
)

// List returns alerts for the external reporting collaborator, newest
// first, optionally filtered by rule, identity, or acknowledged state.
func List(c *fiber.Ctx) error {
	db := database.Database.Db

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 50
	}

	query := db.Order("created_at desc").Limit(limit)
	if rule := c.Query("rule"); rule != "" {
		query = query.Where("rule = ?", rule)
	}
	if identity := c.Query("identity"); identity != "" {
		query = query.Where("identity = ?", identity)
	}
	if ack := c.Query("acknowledged"); ack != "" {
		query = query.Where("is_acknowledged = ?", ack == "true")
	}

	var alerts []models.LocationAlert
	if err := query.Find(&alerts).Error; err != nil {
		log.Printf("Error fetching alerts: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch alerts!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Alerts fetched.", alerts)
}

// Acknowledge marks one alert as reviewed.
func Acknowledge(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid alert id!", nil)
	}

	db := database.Database.Db
	var alert models.LocationAlert
	if err := db.First(&alert, uint(id)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Alert not found!", nil)
	}

	alert.IsAcknowledged = true
	if err := db.Save(&alert).Error; err != nil {
		log.Printf("Error acknowledging alert %d: %v", alert.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to acknowledge alert!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Alert acknowledged.", alert)
}
