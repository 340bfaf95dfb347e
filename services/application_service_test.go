// File: /services/application_service_test.go
package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"crewcall-api/models"
)

func newApplicationService(t *testing.T) (*ApplicationService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewApplicationService(db, NewNotificationService(db, nil))
	return svc, db
}

func seedApplyFixtures(t *testing.T, db *gorm.DB) (*models.Account, *models.Account, *models.Event) {
	t.Helper()

	organiser := &models.Account{ID: "org-1", Name: "Org", Email: "org@example.com", Password: "x", Role: models.RoleOrganiser}
	staff := testStaff("staff-1", ptr(19.070), ptr(72.870))
	event := testEvent("event-1", organiser.ID, ptr(19.075), ptr(72.875), true)

	db.Create(organiser)
	db.Create(staff)
	db.Create(event)
	return organiser, staff, event
}

func TestApply(t *testing.T) {
	svc, db := newApplicationService(t)
	organiser, staff, event := seedApplyFixtures(t, db)

	app, err := svc.Apply(staff, event.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if app.Status != models.ApplicationStatusPending {
		t.Errorf("expected pending status, got %s", app.Status)
	}
	if app.ReviewedAt != nil {
		t.Error("new application should not have a review timestamp")
	}

	// Organiser should be notified
	var count int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", organiser.ID, models.NotificationTypeNewApplication).
		Count(&count)
	if count != 1 {
		t.Errorf("expected 1 new-application notification for organiser, got %d", count)
	}
}

func TestApplyDuplicate(t *testing.T) {
	svc, db := newApplicationService(t)
	_, staff, event := seedApplyFixtures(t, db)

	if _, err := svc.Apply(staff, event.ID); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if _, err := svc.Apply(staff, event.ID); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("expected ErrAlreadyApplied, got %v", err)
	}

	var count int64
	db.Model(&models.Application{}).Where("event_id = ? AND staff_id = ?", event.ID, staff.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 application row, got %d", count)
	}
}

func TestApplyGuards(t *testing.T) {
	svc, db := newApplicationService(t)
	organiser, staff, _ := seedApplyFixtures(t, db)

	if _, err := svc.Apply(staff, "no-such-event"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}

	unapproved := testEvent("unapproved", organiser.ID, ptr(19.071), ptr(72.871), false)
	db.Create(unapproved)
	if _, err := svc.Apply(staff, unapproved.ID); !errors.Is(err, ErrEventNotAvailable) {
		t.Errorf("expected ErrEventNotAvailable, got %v", err)
	}

	far := testEvent("far", organiser.ID, ptr(19.30), ptr(73.20), true)
	db.Create(far)
	if _, err := svc.Apply(staff, far.ID); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}

	noCoords := testEvent("no-coords", organiser.ID, nil, nil, true)
	db.Create(noCoords)
	if _, err := svc.Apply(staff, noCoords.ID); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for event without coordinates, got %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, db := newApplicationService(t)
	_, staff, event := seedApplyFixtures(t, db)

	// Cancelling before applying is a no-op
	changed, err := svc.Cancel(staff, event.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if changed {
		t.Error("cancel without an application should report no change")
	}

	if _, err := svc.Apply(staff, event.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	changed, err = svc.Cancel(staff, event.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !changed {
		t.Error("first cancel should report a change")
	}

	changed, err = svc.Cancel(staff, event.ID)
	if err != nil {
		t.Fatalf("second Cancel failed: %v", err)
	}
	if changed {
		t.Error("second cancel should be a no-op")
	}

	// The row is flagged, never deleted
	var app models.Application
	if err := db.First(&app, "event_id = ? AND staff_id = ?", event.ID, staff.ID).Error; err != nil {
		t.Fatalf("cancelled application row should still exist: %v", err)
	}
	if app.Status != models.ApplicationStatusCancelled {
		t.Errorf("expected cancelled status, got %s", app.Status)
	}
}

func TestReapplyRevivesSameRow(t *testing.T) {
	svc, db := newApplicationService(t)
	_, staff, event := seedApplyFixtures(t, db)

	first, err := svc.Apply(staff, event.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := svc.Cancel(staff, event.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	second, err := svc.Apply(staff, event.ID)
	if err != nil {
		t.Fatalf("reapply failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("reapply should revive the same row, got %s and %s", first.ID, second.ID)
	}
	if second.Status != models.ApplicationStatusPending {
		t.Errorf("revived application should be pending, got %s", second.Status)
	}

	var count int64
	db.Model(&models.Application{}).Where("event_id = ? AND staff_id = ?", event.ID, staff.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected a single application row after reapply, got %d", count)
	}
}

func TestReview(t *testing.T) {
	svc, db := newApplicationService(t)
	organiser, staff, event := seedApplyFixtures(t, db)

	if _, err := svc.Apply(staff, event.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	app, err := svc.Review(organiser, event.ID, staff.ID, models.ApplicationStatusAccepted)
	if err != nil {
		t.Fatalf("Review failed: %v", err)
	}
	if app.Status != models.ApplicationStatusAccepted {
		t.Errorf("expected accepted status, got %s", app.Status)
	}
	if app.ReviewedAt == nil {
		t.Error("reviewed application should have a review timestamp")
	}

	// Staff is told about the decision
	var count int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", staff.ID, models.NotificationTypeApplicationReviewed).
		Count(&count)
	if count != 1 {
		t.Errorf("expected 1 review notification for staff, got %d", count)
	}

	// Deciding twice is rejected
	if _, err := svc.Review(organiser, event.ID, staff.ID, models.ApplicationStatusRejected); !errors.Is(err, ErrApplicationDecided) {
		t.Errorf("expected ErrApplicationDecided on re-review, got %v", err)
	}
}

func TestReviewAuthorization(t *testing.T) {
	svc, db := newApplicationService(t)
	_, staff, event := seedApplyFixtures(t, db)

	other := &models.Account{ID: "org-2", Name: "Other", Email: "other@example.com", Password: "x", Role: models.RoleOrganiser}
	admin := &models.Account{ID: "admin-1", Name: "Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	db.Create(other)
	db.Create(admin)

	if _, err := svc.Apply(staff, event.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if _, err := svc.Review(other, event.ID, staff.ID, models.ApplicationStatusAccepted); !errors.Is(err, ErrNotEventOwner) {
		t.Errorf("expected ErrNotEventOwner for foreign organiser, got %v", err)
	}

	// Admins may review any event
	if _, err := svc.Review(admin, event.ID, staff.ID, models.ApplicationStatusRejected); err != nil {
		t.Errorf("admin review failed: %v", err)
	}
}

func TestReviewValidation(t *testing.T) {
	svc, db := newApplicationService(t)
	organiser, staff, event := seedApplyFixtures(t, db)

	if _, err := svc.Review(organiser, event.ID, staff.ID, "maybe"); !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("expected ErrInvalidDecision, got %v", err)
	}
	if _, err := svc.Review(organiser, event.ID, staff.ID, models.ApplicationStatusAccepted); !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("expected ErrApplicationNotFound, got %v", err)
	}

	// Cancelled applications cannot be decided
	if _, err := svc.Apply(staff, event.ID); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := svc.Cancel(staff, event.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := svc.Review(organiser, event.ID, staff.ID, models.ApplicationStatusAccepted); !errors.Is(err, ErrApplicationDecided) {
		t.Errorf("expected ErrApplicationDecided for cancelled application, got %v", err)
	}
}
