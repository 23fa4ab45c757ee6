package trackRoutes

import (
	trackControllers "rollcall/controllers/track"
	trackValidators "rollcall/validators/track"

	"github.com/gofiber/fiber/v2"
)

func SetupTrackRoutes(app *fiber.App) {
	trackGroup := app.Group("/track")

	trackGroup.Post("/attendance", trackValidators.Attendance(), trackControllers.Attendance)
	trackGroup.Post("/login", trackValidators.Login(), trackControllers.Login)
	trackGroup.Get("/history", trackControllers.History)
	trackGroup.Get("/stats", trackControllers.Stats)
}
