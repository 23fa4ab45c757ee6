package geofenceValidator

import (
	"strings"

	"rollcall/middleware"
	"rollcall/models"

	"github.com/gofiber/fiber/v2"
)

type geofenceBody struct {
	Name      string   `json:"name"`
	SiteType  string   `json:"site_type"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *uint    `json:"radius"`
}

func validateGeofenceBody(reqData *geofenceBody) map[string]string {
	errors := make(map[string]string)

	// Validate Name
	if len(strings.TrimSpace(reqData.Name)) < 3 {
		errors["name"] = "Name must be at least 3 characters long!"
	}

	// Validate Site Type
	if reqData.SiteType != "" && !models.ValidSiteType(reqData.SiteType) {
		errors["site_type"] = "Invalid site type!"
	}

	// Validate Coordinates
	if reqData.Latitude == nil || *reqData.Latitude < -90 || *reqData.Latitude > 90 {
		errors["latitude"] = "Latitude must be between -90 and 90!"
	}
	if reqData.Longitude == nil || *reqData.Longitude < -180 || *reqData.Longitude > 180 {
		errors["longitude"] = "Longitude must be between -180 and 180!"
	}

	// Validate Radius
	if reqData.Radius != nil && (*reqData.Radius < models.MinGeofenceRadius || *reqData.Radius > models.MaxGeofenceRadius) {
		errors["radius"] = "Radius must be between 10 and 10000 meters!"
	}

	return errors
}

// Save validator middleware, shared by create and update
func Save() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(geofenceBody)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validateGeofenceBody(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// TestMatch validator middleware
func TestMatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Latitude == nil || *reqData.Latitude < -90 || *reqData.Latitude > 90 {
			errors["latitude"] = "Latitude must be between -90 and 90!"
		}
		if reqData.Longitude == nil || *reqData.Longitude < -180 || *reqData.Longitude > 180 {
			errors["longitude"] = "Longitude must be between -180 and 180!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
