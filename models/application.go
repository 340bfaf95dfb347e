// File: /models/application.go
package models

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCancelled ApplicationStatus = "cancelled"
)

// Application links a staff account to an event. There is at most one row per
// (event, staff) pair, backed by a unique index; a cancelled application is
// kept for audit and flips back to pending on reapply.
type Application struct {
	ID         string            `json:"id" gorm:"primaryKey;size:191"`
	EventID    string            `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_applications_event_staff"`
	StaffID    string            `json:"staff_id" gorm:"not null;size:191;uniqueIndex:uk_applications_event_staff"`
	Status     ApplicationStatus `json:"status" gorm:"not null;default:'pending';size:20"`
	AppliedAt  time.Time         `json:"applied_at"`
	ReviewedAt *time.Time        `json:"reviewed_at"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	Event Event   `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Staff Account `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
}

// Active reports whether the application still occupies the (event, staff)
// slot for discovery and duplicate checks.
func (a *Application) Active() bool {
	return a.Status != ApplicationStatusCancelled
}

// Decided reports whether an organiser has already reviewed the application.
func (a *Application) Decided() bool {
	return a.Status == ApplicationStatusAccepted || a.Status == ApplicationStatusRejected
}

// ApplicationResponse carries the application with its event and staff
// summaries for dashboard listings.
type ApplicationResponse struct {
	ID        string            `json:"id"`
	EventID   string            `json:"event_id"`
	Status    ApplicationStatus `json:"status"`
	AppliedAt time.Time         `json:"applied_at"`
	Event     *EventResponse    `json:"event,omitempty"`
	Staff     *AccountSummary   `json:"staff,omitempty"`
}

func (a *Application) ToResponse() ApplicationResponse {
	resp := ApplicationResponse{
		ID:        a.ID,
		EventID:   a.EventID,
		Status:    a.Status,
		AppliedAt: a.AppliedAt,
	}
	if a.Event.ID != "" {
		ev := a.Event.ToResponse()
		resp.Event = &ev
	}
	if a.Staff.ID != "" {
		s := a.Staff.Summary()
		resp.Staff = &s
	}
	return resp
}
