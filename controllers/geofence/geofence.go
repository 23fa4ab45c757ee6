package geofenceController

import (
	"log"
	"strconv"

	"rollcall/database"
	"rollcall/location"
	"rollcall/middleware"
	"rollcall/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	fenceStore *location.GeofenceStore
	geocoder   *location.ReverseGeocoder
)

// Setup injects the store and the optional reverse geocoder from main.
func Setup(store *location.GeofenceStore, rg *location.ReverseGeocoder) {
	fenceStore = store
	geocoder = rg
}

// SiteType and Radius are pointers so an update that omits them keeps
// the stored values instead of writing "" and 0.
type geofenceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SiteType    *string `json:"site_type"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Radius      *uint   `json:"radius"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	PostalCode  string  `json:"postal_code"`
	IsActive    *bool   `json:"is_active"`
	RequireGPS  *bool   `json:"require_gps"`
	AllowRemote *bool   `json:"allow_remote"`
}

// Create registers a new geofence. When the admin supplied no address
// metadata, the reverse geocoder fills it in best-effort; the fence is
// created either way.
func Create(c *fiber.Ctx) error {
	var reqData geofenceRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	fence := models.Geofence{
		Name:        reqData.Name,
		Description: reqData.Description,
		SiteType:    models.SiteOffice,
		Latitude:    reqData.Latitude,
		Longitude:   reqData.Longitude,
		Radius:      100,
		Address:     reqData.Address,
		City:        reqData.City,
		State:       reqData.State,
		Country:     reqData.Country,
		PostalCode:  reqData.PostalCode,
		IsActive:    reqData.IsActive == nil || *reqData.IsActive,
		RequireGPS:  reqData.RequireGPS == nil || *reqData.RequireGPS,
		AllowRemote: reqData.AllowRemote != nil && *reqData.AllowRemote,
	}
	if reqData.SiteType != nil {
		fence.SiteType = *reqData.SiteType
	}
	if reqData.Radius != nil {
		fence.Radius = *reqData.Radius
	}
	if userID, ok := c.Locals("userId").(uint); ok {
		fence.CreatedByID = &userID
	}

	// Display metadata only; never part of any matching decision
	if fence.Address == "" && fence.City == "" && geocoder != nil {
		if result, err := geocoder.Reverse(c.UserContext(), fence.Latitude, fence.Longitude); err != nil {
			log.Printf("Reverse geocode failed for new geofence: %v", err)
		} else {
			fence.Address = result.Address.Road
			fence.City = result.Address.City
			fence.State = result.Address.State
			fence.Country = result.Address.Country
			fence.PostalCode = result.Address.Postcode
		}
	}

	if err := database.Database.Db.Create(&fence).Error; err != nil {
		log.Printf("Error saving geofence: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create geofence!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Geofence created successfully.", fence)
}

// List returns all geofences, active and inactive, for the admin screen.
func List(c *fiber.Ctx) error {
	var fences []models.Geofence
	if err := database.Database.Db.Order("name asc").Find(&fences).Error; err != nil {
		log.Printf("Error fetching geofences: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch geofences!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Geofences fetched.", fences)
}

// Detail returns one geofence with its formatted address.
func Detail(c *fiber.Ctx) error {
	fence, err := fenceFromParam(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Geofence not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Geofence fetched.", fiber.Map{
		"geofence":     fence,
		"full_address": fence.FullAddress(),
	})
}

// Update edits an existing geofence.
func Update(c *fiber.Ctx) error {
	fence, err := fenceFromParam(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Geofence not found!", nil)
	}

	var reqData geofenceRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	fence.Name = reqData.Name
	fence.Description = reqData.Description
	if reqData.SiteType != nil {
		fence.SiteType = *reqData.SiteType
	}
	fence.Latitude = reqData.Latitude
	fence.Longitude = reqData.Longitude
	if reqData.Radius != nil {
		fence.Radius = *reqData.Radius
	}
	fence.Address = reqData.Address
	fence.City = reqData.City
	fence.State = reqData.State
	fence.Country = reqData.Country
	fence.PostalCode = reqData.PostalCode
	if reqData.IsActive != nil {
		fence.IsActive = *reqData.IsActive
	}
	if reqData.RequireGPS != nil {
		fence.RequireGPS = *reqData.RequireGPS
	}
	if reqData.AllowRemote != nil {
		fence.AllowRemote = *reqData.AllowRemote
	}

	if err := database.Database.Db.Save(fence).Error; err != nil {
		log.Printf("Error updating geofence %d: %v", fence.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update geofence!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Geofence updated successfully.", fence)
}

// Toggle flips the active flag. Deactivation is the preferred way to
// retire a site because past events keep their references.
func Toggle(c *fiber.Ctx) error {
	fence, err := fenceFromParam(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Geofence not found!", nil)
	}

	fence.IsActive = !fence.IsActive
	if err := database.Database.Db.Save(fence).Error; err != nil {
		log.Printf("Error toggling geofence %d: %v", fence.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to toggle geofence!", nil)
	}

	message := "Geofence deactivated."
	if fence.IsActive {
		message = "Geofence activated."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fence)
}

// Delete removes a geofence. Events referencing it keep their history;
// the reference is nulled out, never cascaded.
func Delete(c *fiber.Ctx) error {
	fence, err := fenceFromParam(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Geofence not found!", nil)
	}

	if err := database.Database.Db.Delete(fence).Error; err != nil {
		log.Printf("Error deleting geofence %d: %v", fence.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete geofence!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Geofence deleted.", nil)
}

type testMatchRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TestMatch runs an ad-hoc match for a manual coordinate check.
func TestMatch(c *fiber.Ctx) error {
	var reqData testMatchRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	result, err := fenceStore.Match(reqData.Latitude, reqData.Longitude)
	if err != nil {
		log.Printf("Error matching coordinates: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to match coordinates!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Match evaluated.", result)
}

func fenceFromParam(c *fiber.Ctx) (*models.Geofence, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return fenceStore.FenceByID(uint(id))
}
