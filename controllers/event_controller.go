// File: /controllers/event_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crewcall-api/config"
	"crewcall-api/middleware"
	"crewcall-api/models"
	"crewcall-api/services"
	"crewcall-api/utils"
)

type EventController struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *services.NotificationService
}

func NewEventController(db *gorm.DB, cfg *config.Config, notifications *services.NotificationService) *EventController {
	return &EventController{db: db, cfg: cfg, notifications: notifications}
}

// GetEvent is the shared read endpoint available to any authenticated role.
func (ec *EventController) GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.Preload("Organiser").Preload("Attachments").Preload("Ratings").
		First(&event, "id = ?", eventID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Event not found")
		return
	}

	c.JSON(http.StatusOK, event.ToResponse())
}

var allowedAttachmentExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".pdf": true, ".doc": true, ".docx": true,
}

// UploadAttachment stores a file under the upload directory and records it
// against the event. Oversized uploads are hard-rejected; there is no
// streaming backpressure beyond the byte limit.
func (ec *EventController) UploadAttachment(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	role := models.Role(c.GetString(middleware.ContextRole))
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Event not found")
		return
	}
	if event.OrganiserID != accountID && role != models.RoleAdmin {
		utils.SendError(c, http.StatusForbidden, "You can only upload attachments to your own events")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "No file provided")
		return
	}
	if file.Size > ec.cfg.MaxUploadBytes {
		utils.SendValidationError(c, fmt.Sprintf("File exceeds the %d byte limit", ec.cfg.MaxUploadBytes))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAttachmentExts[ext] {
		utils.SendValidationError(c, "Unsupported file type")
		return
	}

	storedName := uuid.New().String() + ext
	dst := filepath.Join(ec.cfg.UploadDir, storedName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		utils.SendServerError(c, err)
		return
	}

	attachment := models.Attachment{
		ID:         uuid.New().String(),
		EventID:    eventID,
		FileName:   file.Filename,
		URL:        "/uploads/" + storedName,
		UploadedAt: time.Now(),
	}

	if err := ec.db.Create(&attachment).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendCreated(c, "Attachment uploaded", attachment)
}

// GetPendingEvents lists unapproved events for the admin review queue.
func (ec *EventController) GetPendingEvents(c *gin.Context) {
	var events []models.Event
	if err := ec.db.Preload("Organiser").Where("approved = ?", false).
		Order("created_at ASC").Find(&events).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// ApproveEvent marks an event approved, making it visible to staff
// discovery, and notifies the organiser.
func (ec *EventController) ApproveEvent(c *gin.Context) {
	adminID := c.GetString(middleware.ContextAccountID)
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Event not found")
		return
	}

	if event.Approved {
		utils.SendSuccess(c, "Event is already approved", event.ToResponse())
		return
	}

	if err := ec.db.Model(&event).Update("approved", true).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	ec.notifications.NotifyQuietly(models.CreateNotificationParams{
		Type:        models.NotificationTypeEventApproved,
		ActorID:     adminID,
		RecipientID: event.OrganiserID,
		EventID:     &event.ID,
		Message:     fmt.Sprintf("Your event %s has been approved", event.Name),
	})

	event.Approved = true
	utils.SendSuccess(c, "Event approved", event.ToResponse())
}
