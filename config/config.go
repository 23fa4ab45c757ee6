package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	GeoApiUrl     string        // Base URL of the IP geolocation service
	GeoApiTimeout time.Duration // Bound on every external lookup call
	GeoCacheTTL   time.Duration // Freshness window for cached geolocations

	ReverseGeocodeUrl string // Optional reverse-geocoding endpoint for admin display

	AnomalyScanCron     string // Cron expression for the anomaly scanner
	AnomalyScanLookback time.Duration
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		GeoApiUrl:     getEnv("GEO_API_URL", "http://ip-api.com"),
		GeoApiTimeout: time.Duration(getEnvInt("GEO_API_TIMEOUT_SECONDS", 5)) * time.Second,
		GeoCacheTTL:   time.Duration(getEnvInt("GEO_CACHE_TTL_HOURS", 24)) * time.Hour,

		ReverseGeocodeUrl: getEnv("REVERSE_GEOCODE_URL", "https://nominatim.openstreetmap.org/reverse"),

		AnomalyScanCron:     getEnv("ANOMALY_SCAN_CRON", "*/10 * * * *"),
		AnomalyScanLookback: time.Duration(getEnvInt("ANOMALY_SCAN_LOOKBACK_HOURS", 24)) * time.Hour,
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
