// File: /services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crewcall-api/models"
	"crewcall-api/repositories"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotAvailable   = errors.New("event is not open for applications")
	ErrOutOfRange          = errors.New("event is outside your working radius")
	ErrAlreadyApplied      = errors.New("you have already applied to this event")
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationDecided  = errors.New("application has already been reviewed")
	ErrNotEventOwner       = errors.New("you can only manage applications on your own events")
	ErrInvalidDecision     = errors.New("decision must be accepted or rejected")
)

// ApplicationService implements the staff/event application lifecycle:
// absent -> pending -> {accepted | rejected}, with cancelled as an explicit
// status so history is never deleted. Every transition notifies the
// counterpart party.
type ApplicationService struct {
	db            *gorm.DB
	appRepo       *repositories.ApplicationRepository
	notifications *NotificationService
}

func NewApplicationService(db *gorm.DB, notifications *NotificationService) *ApplicationService {
	return &ApplicationService{
		db:            db,
		appRepo:       repositories.NewApplicationRepository(db),
		notifications: notifications,
	}
}

func (s *ApplicationService) loadEvent(eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Apply creates (or revives) the staff member's application on an event.
// Guards: event approved, venue within range, no active application. A
// cancelled application flips back to pending rather than inserting a second
// row.
func (s *ApplicationService) Apply(staff *models.Account, eventID string) (*models.Application, error) {
	event, err := s.loadEvent(eventID)
	if err != nil {
		return nil, err
	}
	if !event.Approved {
		return nil, ErrEventNotAvailable
	}

	distance, ok := EventDistance(staff, event)
	if !ok || distance > MaxMatchDistanceKm {
		return nil, ErrOutOfRange
	}

	existing, err := s.appRepo.FindByEventAndStaff(eventID, staff.ID)
	switch {
	case err == nil && existing.Active():
		return nil, ErrAlreadyApplied
	case err == nil:
		// Reapply after cancel: same row goes back to pending
		existing.Status = models.ApplicationStatusPending
		existing.AppliedAt = time.Now()
		existing.ReviewedAt = nil
		if err := s.appRepo.Save(existing); err != nil {
			return nil, err
		}
		s.notifyOrganiser(event, staff, models.NotificationTypeNewApplication,
			fmt.Sprintf("%s applied to work %s", staff.Name, event.Name))
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	app := &models.Application{
		ID:        uuid.New().String(),
		EventID:   eventID,
		StaffID:   staff.ID,
		Status:    models.ApplicationStatusPending,
		AppliedAt: time.Now(),
	}
	if err := s.appRepo.Create(app); err != nil {
		if errors.Is(err, repositories.ErrDuplicateApplication) {
			// Lost the race against a concurrent apply; the unique index
			// guarantees only one row exists.
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	s.notifyOrganiser(event, staff, models.NotificationTypeNewApplication,
		fmt.Sprintf("%s applied to work %s", staff.Name, event.Name))
	return app, nil
}

// Cancel marks the application cancelled. Idempotent: a missing or already
// cancelled application is a successful no-op and the returned flag reports
// whether anything changed.
func (s *ApplicationService) Cancel(staff *models.Account, eventID string) (bool, error) {
	event, err := s.loadEvent(eventID)
	if err != nil {
		return false, err
	}

	app, err := s.appRepo.FindByEventAndStaff(eventID, staff.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !app.Active() {
		return false, nil
	}

	app.Status = models.ApplicationStatusCancelled
	if err := s.appRepo.Save(app); err != nil {
		return false, err
	}

	s.notifyOrganiser(event, staff, models.NotificationTypeApplicationCancelled,
		fmt.Sprintf("%s withdrew from %s", staff.Name, event.Name))
	return true, nil
}

// Review lets the owning organiser (or an admin) decide a pending
// application. Re-reviewing a decided or cancelled application is rejected.
func (s *ApplicationService) Review(reviewer *models.Account, eventID, staffID string, decision models.ApplicationStatus) (*models.Application, error) {
	if decision != models.ApplicationStatusAccepted && decision != models.ApplicationStatusRejected {
		return nil, ErrInvalidDecision
	}

	event, err := s.loadEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganiserID != reviewer.ID && reviewer.Role != models.RoleAdmin {
		return nil, ErrNotEventOwner
	}

	app, err := s.appRepo.FindByEventAndStaff(eventID, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, ErrApplicationDecided
	}

	now := time.Now()
	app.Status = decision
	app.ReviewedAt = &now
	if err := s.appRepo.Save(app); err != nil {
		return nil, err
	}

	s.notifications.NotifyQuietly(models.CreateNotificationParams{
		Type:        models.NotificationTypeApplicationReviewed,
		ActorID:     reviewer.ID,
		RecipientID: staffID,
		EventID:     &event.ID,
		Message:     fmt.Sprintf("Your application for %s was %s", event.Name, decision),
	})

	return app, nil
}

func (s *ApplicationService) notifyOrganiser(event *models.Event, staff *models.Account, t models.NotificationType, message string) {
	s.notifications.NotifyQuietly(models.CreateNotificationParams{
		Type:        t,
		ActorID:     staff.ID,
		RecipientID: event.OrganiserID,
		EventID:     &event.ID,
		Message:     message,
	})
}
