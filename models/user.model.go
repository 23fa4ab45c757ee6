package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a minimal admin account row. Account creation and the login
// flow itself live in an external service; this table only backs the
// created-by reference on geofences and the user identity on login events.
type User struct {
	gorm.Model
	Name      string    `gorm:"default:''" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Role      string    `gorm:"default:'ADMIN'" json:"role"`
	LastLogin time.Time `gorm:"default:NULL" json:"last_login"`
	IsDeleted bool      `gorm:"default:false" json:"is_deleted"`
}
