// File: /repositories/application_repository.go
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"crewcall-api/models"
	"crewcall-api/utils"
)

// ErrDuplicateApplication is returned when the (event, staff) unique index
// rejects an insert. A concurrent second apply loses here instead of
// producing a second row.
var ErrDuplicateApplication = errors.New("application already exists for this event")

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// FindByEventAndStaff returns the single application row for the pair, or
// gorm.ErrRecordNotFound.
func (r *ApplicationRepository) FindByEventAndStaff(eventID, staffID string) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("event_id = ? AND staff_id = ?", eventID, staffID).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *ApplicationRepository) Save(app *models.Application) error {
	return r.db.Save(app).Error
}

// ListForStaff returns the staff member's applications with event and
// organiser data preloaded. Cancelled rows are kept for audit but excluded
// unless explicitly requested.
func (r *ApplicationRepository) ListForStaff(staffID string, includeCancelled bool) ([]models.Application, error) {
	query := r.db.Preload("Event").Preload("Event.Organiser").Where("staff_id = ?", staffID)
	if !includeCancelled {
		query = query.Where("status <> ?", models.ApplicationStatusCancelled)
	}

	var apps []models.Application
	if err := query.Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ListForEvent returns all applications on an event with staff preloaded,
// including cancelled ones so organisers see the full history.
func (r *ApplicationRepository) ListForEvent(eventID string) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.Preload("Staff").Where("event_id = ?", eventID).
		Order("applied_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ActiveEventIDs returns the set of event ids the staff member currently has
// a non-cancelled application on. Used by the discovery filter.
func (r *ApplicationRepository) ActiveEventIDs(staffID string) (map[string]bool, error) {
	var eventIDs []string
	if err := r.db.Model(&models.Application{}).
		Where("staff_id = ? AND status <> ?", staffID, models.ApplicationStatusCancelled).
		Pluck("event_id", &eventIDs).Error; err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		set[id] = true
	}
	return set, nil
}
