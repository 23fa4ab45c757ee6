package geofenceRoutes

import (
	geofenceControllers "rollcall/controllers/geofence"
	"rollcall/middleware"
	geofenceValidators "rollcall/validators/geofence"

	"github.com/gofiber/fiber/v2"
)

func SetupGeofenceRoutes(app *fiber.App) {
	geofenceGroup := app.Group("/geofence", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	geofenceGroup.Post("/", geofenceValidators.Save(), geofenceControllers.Create)
	geofenceGroup.Get("/", geofenceControllers.List)
	geofenceGroup.Post("/test", geofenceValidators.TestMatch(), geofenceControllers.TestMatch)
	geofenceGroup.Get("/:id", geofenceControllers.Detail)
	geofenceGroup.Put("/:id", geofenceValidators.Save(), geofenceControllers.Update)
	geofenceGroup.Patch("/:id/toggle", geofenceControllers.Toggle)
	geofenceGroup.Delete("/:id", geofenceControllers.Delete)
}
