// File: /services/notification_service.go
package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crewcall-api/models"
)

// NotificationService persists notifications and mirrors them onto the live
// channel. The websocket push is a hint; failures there are logged and
// ignored because the stored row is what clients reconcile against.
type NotificationService struct {
	db  *gorm.DB
	hub *NotificationHub
}

func NewNotificationService(db *gorm.DB, hub *NotificationHub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

// Notify stores the notification and pushes it into the recipient's room.
func (ns *NotificationService) Notify(params models.CreateNotificationParams) error {
	// No self-notifications
	if params.ActorID == params.RecipientID {
		return nil
	}

	notification := models.Notification{
		ID:          uuid.New().String(),
		Type:        params.Type,
		ActorID:     params.ActorID,
		RecipientID: params.RecipientID,
		EventID:     params.EventID,
		Message:     params.Message,
		IsRead:      false,
	}

	if err := ns.db.Create(&notification).Error; err != nil {
		return err
	}

	if ns.hub != nil {
		ns.hub.Send(params.RecipientID, string(params.Type), map[string]interface{}{
			"id":       notification.ID,
			"actor_id": params.ActorID,
			"event_id": params.EventID,
			"message":  params.Message,
		})
	}

	return nil
}

// NotifyQuietly is Notify with the error downgraded to a log line, for call
// sites where the primary state change already succeeded.
func (ns *NotificationService) NotifyQuietly(params models.CreateNotificationParams) {
	if err := ns.Notify(params); err != nil {
		log.Printf("Failed to create %s notification: %v", params.Type, err)
	}
}

// CleanupRead deletes read notifications older than the cutoff and returns
// the number removed.
func (ns *NotificationService) CleanupRead(olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	result := ns.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
