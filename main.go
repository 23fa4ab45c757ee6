package main

import (
	"log"

	"rollcall/config"
	alertRoutes "rollcall/routers/alertRoutes"
	geofenceRoutes "rollcall/routers/geofenceRoutes"
	trackRoutes "rollcall/routers/trackRoutes"

	geofenceController "rollcall/controllers/geofence"
	trackController "rollcall/controllers/track"
	"rollcall/database"
	"rollcall/location"
	"rollcall/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Wire the location core explicitly; the cache and lookup provider
	// are constructed here and owned by the resolver.
	db := database.Database.Db
	cache := location.NewCache(config.AppConfig.GeoCacheTTL)
	provider := location.NewIPAPIProvider(config.AppConfig.GeoApiUrl, config.AppConfig.GeoApiTimeout)
	resolver := location.NewResolver(db, cache, provider, config.AppConfig.GeoCacheTTL, config.AppConfig.GeoApiTimeout)
	fences := location.NewGeofenceStore(db)
	tracker := location.NewTracker(db, resolver, fences)
	geocoder := location.NewReverseGeocoder(config.AppConfig.ReverseGeocodeUrl, config.AppConfig.GeoApiTimeout)

	trackController.Setup(tracker)
	geofenceController.Setup(fences, geocoder)

	utils.InitializeAnomalyScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	trackRoutes.SetupTrackRoutes(app)
	geofenceRoutes.SetupGeofenceRoutes(app)
	alertRoutes.SetupAlertRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
