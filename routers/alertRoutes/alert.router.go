package alertRoutes

import (
	alertControllers "rollcall/controllers/alert"
	"rollcall/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAlertRoutes(app *fiber.App) {
	alertGroup := app.Group("/alert", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	alertGroup.Get("/", alertControllers.List)
	alertGroup.Patch("/:id/ack", alertControllers.Acknowledge)
}
