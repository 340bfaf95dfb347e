// File: /models/notification.go
package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeNewApplication       NotificationType = "new-application"
	NotificationTypeApplicationCancelled NotificationType = "application-cancelled"
	NotificationTypeApplicationReviewed  NotificationType = "application-reviewed"
	NotificationTypeEventApproved        NotificationType = "event-approved"
)

// Notification is the persisted record of a state change. The websocket
// channel only pushes a hint; these rows are the source of truth.
type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;size:191"`
	Type        NotificationType `json:"type" gorm:"not null;size:50"`
	ActorID     string           `json:"actor_id" gorm:"not null;size:191"`           // who performed the action
	RecipientID string           `json:"recipient_id" gorm:"not null;size:191;index"` // who receives it
	EventID     *string          `json:"event_id" gorm:"size:191"`
	Message     string           `json:"message" gorm:"size:500"`
	IsRead      bool             `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Actor Account `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
	Event *Event  `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

type CreateNotificationParams struct {
	Type        NotificationType
	ActorID     string
	RecipientID string
	EventID     *string
	Message     string
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Actor     AccountSummary   `json:"actor"`
	EventID   *string          `json:"event_id,omitempty"`
	EventName string           `json:"event_name,omitempty"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	TimeAgo   string           `json:"time_ago"`
}

type NotificationStats struct {
	UnreadCount int `json:"unread_count"`
	TotalCount  int `json:"total_count"`
}

// GetTimeAgo returns a human-readable time difference.
func (n *Notification) GetTimeAgo() string {
	diff := time.Since(n.CreatedAt)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		minutes := int(diff.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

func (n *Notification) ToResponse() NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		EventID:   n.EventID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		TimeAgo:   n.GetTimeAgo(),
		Actor:     n.Actor.Summary(),
	}
	if n.Event != nil {
		resp.EventName = n.Event.Name
	}
	return resp
}
