package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"

	"rollcall/config"
	"rollcall/database"
	"rollcall/models"
)

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	// Open CSV file
	file, err := os.Open("Geofences.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Create CSV reader
	reader := csv.NewReader(file)

	// Read all records
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Expected columns: name,site_type,latitude,longitude,radius,address,city,state,country,postal_code
	inserted := 0
	for i, row := range records[1:] {
		if len(row) < 10 {
			log.Printf("Skipping row %d: expected 10 columns, got %d", i+2, len(row))
			continue
		}

		lat, err := strconv.ParseFloat(row[2], 64)
		if err != nil || lat < -90 || lat > 90 {
			log.Printf("Skipping row %d: bad latitude %q", i+2, row[2])
			continue
		}
		lon, err := strconv.ParseFloat(row[3], 64)
		if err != nil || lon < -180 || lon > 180 {
			log.Printf("Skipping row %d: bad longitude %q", i+2, row[3])
			continue
		}
		radius, err := strconv.ParseUint(row[4], 10, 32)
		if err != nil || radius < models.MinGeofenceRadius || radius > models.MaxGeofenceRadius {
			log.Printf("Skipping row %d: bad radius %q", i+2, row[4])
			continue
		}

		siteType := row[1]
		if !models.ValidSiteType(siteType) {
			siteType = models.SiteOther
		}

		fence := models.Geofence{
			Name:       row[0],
			SiteType:   siteType,
			Latitude:   lat,
			Longitude:  lon,
			Radius:     uint(radius),
			Address:    row[5],
			City:       row[6],
			State:      row[7],
			Country:    row[8],
			PostalCode: row[9],
			IsActive:   true,
		}

		if err := database.Database.Db.Create(&fence).Error; err != nil {
			log.Printf("Failed to insert geofence %q: %v", fence.Name, err)
			continue
		}
		inserted++
	}

	log.Printf("Seeded %d geofence(s)", inserted)
}
