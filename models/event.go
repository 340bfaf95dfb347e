// File: /models/event.go
package models

import (
	"time"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
)

type Event struct {
	ID          string `json:"id" gorm:"primaryKey;size:191"`
	Name        string `json:"name" gorm:"not null;size:255"`
	Description string `json:"description" gorm:"type:text"`

	VenueAddress   string   `json:"venue_address" gorm:"size:500"`
	VenueLatitude  *float64 `json:"venue_latitude"`
	VenueLongitude *float64 `json:"venue_longitude"`

	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	Priority       string      `json:"priority" gorm:"size:20;default:'normal'"`
	RequiredStaff  int         `json:"required_staff" gorm:"not null;default:1"`
	RequiredSkills StringSlice `json:"required_skills" gorm:"type:json"`

	// OrganiserID is immutable after creation; ownership checks compare it
	// against the token identity.
	OrganiserID string `json:"organiser_id" gorm:"not null;size:191;index"`

	// Events are invisible to staff discovery until approved by an admin.
	Approved bool `json:"approved" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Organiser    Account       `json:"organiser,omitempty" gorm:"foreignKey:OrganiserID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:EventID"`
	Attachments  []Attachment  `json:"attachments,omitempty" gorm:"foreignKey:EventID"`
	Ratings      []Rating      `json:"ratings,omitempty" gorm:"foreignKey:EventID"`
}

// Status derives the lifecycle phase from the stored timestamps; it is never
// persisted.
func (e *Event) Status() EventStatus {
	return e.StatusAt(time.Now())
}

func (e *Event) StatusAt(now time.Time) EventStatus {
	switch {
	case now.Before(e.StartTime):
		return EventStatusUpcoming
	case now.After(e.EndTime):
		return EventStatusCompleted
	default:
		return EventStatusOngoing
	}
}

// HasLocation reports whether both venue coordinates are present.
func (e *Event) HasLocation() bool {
	return e.VenueLatitude != nil && e.VenueLongitude != nil
}

type Attachment struct {
	ID         string    `json:"id" gorm:"primaryKey;size:191"`
	EventID    string    `json:"event_id" gorm:"not null;size:191;index"`
	FileName   string    `json:"file_name" gorm:"not null;size:255"`
	URL        string    `json:"url" gorm:"not null;size:500"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;size:191"`
	EventID   string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_ratings_event_staff"`
	StaffID   string    `json:"staff_id" gorm:"not null;size:191;uniqueIndex:uk_ratings_event_staff"`
	Rating    int       `json:"rating" gorm:"not null"` // 1-5 inclusive
	Review    string    `json:"review" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	Staff Account `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
}

// EventResponse is an event enriched with derived fields for API output.
type EventResponse struct {
	Event
	Status    EventStatus     `json:"status"`
	Organiser *AccountSummary `json:"organiser_summary,omitempty"`

	// DistanceKm is populated on staff discovery responses.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func (e *Event) ToResponse() EventResponse {
	resp := EventResponse{Event: *e, Status: e.Status()}
	if e.Organiser.ID != "" {
		s := e.Organiser.Summary()
		resp.Organiser = &s
	}
	resp.Event.Organiser = Account{}
	return resp
}
