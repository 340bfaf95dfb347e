// File: /services/matching_service_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crewcall-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Event{},
		&models.Application{},
		&models.Attachment{},
		&models.Rating{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func ptr(v float64) *float64 { return &v }

func testStaff(id string, lat, lng *float64) *models.Account {
	return &models.Account{
		ID:        id,
		Name:      "Staff " + id,
		Email:     id + "@example.com",
		Password:  "x",
		Role:      models.RoleStaff,
		Latitude:  lat,
		Longitude: lng,
	}
}

func testEvent(id, organiserID string, lat, lng *float64, approved bool) *models.Event {
	return &models.Event{
		ID:             id,
		Name:           "Event " + id,
		VenueAddress:   "Somewhere",
		VenueLatitude:  lat,
		VenueLongitude: lng,
		StartTime:      time.Now().Add(24 * time.Hour),
		EndTime:        time.Now().Add(30 * time.Hour),
		RequiredStaff:  2,
		OrganiserID:    organiserID,
		Approved:       approved,
	}
}

func TestHaversine(t *testing.T) {
	// Bandra to Khar, roughly 0.77 km
	d := Haversine(19.070, 72.870, 19.075, 72.875)
	if d < 0.7 || d > 0.85 {
		t.Errorf("expected ~0.77 km, got %f", d)
	}

	// Bandra to Kalyan, roughly 27 km
	d = Haversine(19.070, 72.870, 19.30, 73.20)
	if d < 26 || d > 28 {
		t.Errorf("expected ~27 km, got %f", d)
	}

	if d := Haversine(19.070, 72.870, 19.070, 72.870); d != 0 {
		t.Errorf("expected zero distance for identical points, got %f", d)
	}
}

func TestEventDistanceMissingCoordinates(t *testing.T) {
	staff := testStaff("s1", ptr(19.070), ptr(72.870))
	event := testEvent("e1", "o1", nil, nil, true)

	if _, ok := EventDistance(staff, event); ok {
		t.Error("event without coordinates should not match")
	}

	staff = testStaff("s2", nil, nil)
	event = testEvent("e2", "o1", ptr(19.075), ptr(72.875), true)
	if _, ok := EventDistance(staff, event); ok {
		t.Error("staff without coordinates should not match")
	}
}

func TestNearbyEvents(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchingService(db)

	organiser := &models.Account{ID: "org-1", Name: "Org", Email: "org@example.com", Password: "x", Role: models.RoleOrganiser}
	staff := testStaff("staff-1", ptr(19.070), ptr(72.870))
	db.Create(organiser)
	db.Create(staff)

	near := testEvent("near", organiser.ID, ptr(19.075), ptr(72.875), true)
	far := testEvent("far", organiser.ID, ptr(19.30), ptr(73.20), true)
	unapproved := testEvent("unapproved", organiser.ID, ptr(19.071), ptr(72.871), false)
	noCoords := testEvent("no-coords", organiser.ID, nil, nil, true)
	applied := testEvent("applied", organiser.ID, ptr(19.072), ptr(72.872), true)
	cancelled := testEvent("cancelled-app", organiser.ID, ptr(19.073), ptr(72.873), true)
	for _, e := range []*models.Event{near, far, unapproved, noCoords, applied, cancelled} {
		db.Create(e)
	}

	db.Create(&models.Application{ID: "a1", EventID: applied.ID, StaffID: staff.ID,
		Status: models.ApplicationStatusPending, AppliedAt: time.Now()})
	db.Create(&models.Application{ID: "a2", EventID: cancelled.ID, StaffID: staff.ID,
		Status: models.ApplicationStatusCancelled, AppliedAt: time.Now()})

	results, err := svc.NearbyEvents(staff)
	if err != nil {
		t.Fatalf("NearbyEvents failed: %v", err)
	}

	got := map[string]bool{}
	for _, r := range results {
		got[r.ID] = true
		if r.DistanceKm == nil {
			t.Errorf("event %s missing distance", r.ID)
		}
		if r.Organiser == nil || r.Organiser.ID != organiser.ID {
			t.Errorf("event %s missing organiser summary", r.ID)
		}
	}

	for _, want := range []string{"near", "cancelled-app"} {
		if !got[want] {
			t.Errorf("expected event %s in nearby results", want)
		}
	}
	for _, exclude := range []string{"far", "unapproved", "no-coords", "applied"} {
		if got[exclude] {
			t.Errorf("event %s should not be in nearby results", exclude)
		}
	}
}

func TestNearbyEventsRadiusBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchingService(db)

	organiser := &models.Account{ID: "org-1", Name: "Org", Email: "org@example.com", Password: "x", Role: models.RoleOrganiser}
	staff := testStaff("staff-1", ptr(19.000), ptr(72.870))
	db.Create(organiser)
	db.Create(staff)

	// ~0.0899 degrees of latitude is just under 10 km, ~0.0910 just over
	inside := testEvent("inside", organiser.ID, ptr(19.0899), ptr(72.870), true)
	outside := testEvent("outside", organiser.ID, ptr(19.0910), ptr(72.870), true)
	db.Create(inside)
	db.Create(outside)

	results, err := svc.NearbyEvents(staff)
	if err != nil {
		t.Fatalf("NearbyEvents failed: %v", err)
	}

	if len(results) != 1 || results[0].ID != "inside" {
		ids := make([]string, 0, len(results))
		for _, r := range results {
			ids = append(ids, r.ID)
		}
		t.Errorf("expected only the inside event, got %v", ids)
	}
}

func TestNearbyEventsNoStaffLocation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchingService(db)

	staff := testStaff("staff-1", nil, nil)
	db.Create(staff)

	results, err := svc.NearbyEvents(staff)
	if err != nil {
		t.Fatalf("NearbyEvents failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("staff without location should see no events, got %d", len(results))
	}
}
