// File: /database/database.go
package database

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crewcall-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("no database URL configured")
	}

	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Auto migrate all models
	err := db.AutoMigrate(
		&models.Account{},
		&models.Event{},
		&models.Application{},
		&models.Attachment{},
		&models.Rating{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// One application row per (event, staff) pair. This closes the
	// read-then-write race: a concurrent second apply fails at the storage
	// layer with a duplicate-key error instead of inserting twice.
	if err := db.Exec("ALTER TABLE applications ADD CONSTRAINT uk_applications_event_staff UNIQUE (event_id, staff_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for applications: %v\n", err)
	}

	// One rating per staff member per event
	if err := db.Exec("ALTER TABLE ratings ADD CONSTRAINT uk_ratings_event_staff UNIQUE (event_id, staff_id)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for ratings: %v\n", err)
	}

	// Notification listing is always recipient + recency
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_recipient_created ON notifications(recipient_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for notifications: %v\n", err)
	}

	return nil
}

// SeedData populates the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var accountCount int64
	db.Model(&models.Account{}).Count(&accountCount)

	if accountCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	lat := func(v float64) *float64 { return &v }

	testAccounts := []models.Account{
		{
			ID:       "admin-1",
			Name:     "Admin",
			Email:    "admin@crewcall.app",
			Password: string(hashed),
			Role:     models.RoleAdmin,
		},
		{
			ID:       "organiser-1",
			Name:     "Mira Kulkarni",
			Email:    "mira@catering.example.com",
			Password: string(hashed),
			Role:     models.RoleOrganiser,
			Phone:    "+91 98200 00001",
		},
		{
			ID:        "staff-1",
			Name:      "Dev Patel",
			Email:     "dev@example.com",
			Password:  string(hashed),
			Role:      models.RoleStaff,
			Address:   "Bandra West, Mumbai",
			Latitude:  lat(19.070),
			Longitude: lat(72.870),
		},
	}

	for _, account := range testAccounts {
		if err := db.Create(&account).Error; err != nil {
			fmt.Printf("Warning: Could not create test account %s: %v\n", account.Email, err)
		}
	}

	testEvents := []models.Event{
		{
			ID:             "event-1",
			Name:           "Wedding reception service",
			Description:    "Plated dinner for 200 guests, black-tie service.",
			VenueAddress:   "Khar West, Mumbai",
			VenueLatitude:  lat(19.075),
			VenueLongitude: lat(72.875),
			StartTime:      time.Now().Add(72 * time.Hour),
			EndTime:        time.Now().Add(80 * time.Hour),
			Priority:       "high",
			RequiredStaff:  12,
			RequiredSkills: models.StringSlice{"silver service", "bartending"},
			OrganiserID:    "organiser-1",
			Approved:       true,
		},
		{
			ID:             "event-2",
			Name:           "Corporate lunch buffet",
			Description:    "Weekday buffet setup and clearing.",
			VenueAddress:   "Kalyan, Thane",
			VenueLatitude:  lat(19.30),
			VenueLongitude: lat(73.20),
			StartTime:      time.Now().Add(48 * time.Hour),
			EndTime:        time.Now().Add(54 * time.Hour),
			Priority:       "normal",
			RequiredStaff:  6,
			OrganiserID:    "organiser-1",
			Approved:       true,
		},
	}

	for _, event := range testEvents {
		if err := db.Create(&event).Error; err != nil {
			fmt.Printf("Warning: Could not create test event %s: %v\n", event.Name, err)
		}
	}

	fmt.Println("Database seeded with test accounts and events")
	return nil
}
