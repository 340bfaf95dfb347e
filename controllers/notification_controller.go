// File: /controllers/notification_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"crewcall-api/middleware"
	"crewcall-api/models"
	"crewcall-api/utils"
)

type NotificationController struct {
	db *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// GetNotifications gets paginated notifications for the current account
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := nc.db.Where("recipient_id = ?", accountID)

	var total int64
	query.Model(&models.Notification{}).Count(&total)

	var notifications []models.Notification
	if err := query.Preload("Actor").Preload("Event").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, notifications[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": responses,
		"page":          page,
		"limit":         limit,
		"total":         total,
	})
}

// GetStats returns unread/total counts for the current account.
func (nc *NotificationController) GetStats(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	var unreadCount int64
	var totalCount int64

	if err := nc.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", accountID, false).
		Count(&unreadCount).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	if err := nc.db.Model(&models.Notification{}).
		Where("recipient_id = ?", accountID).
		Count(&totalCount).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NotificationStats{
		UnreadCount: int(unreadCount),
		TotalCount:  int(totalCount),
	})
}

// MarkAsRead marks a notification as read
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	notificationID := c.Param("id")

	var notification models.Notification
	if err := nc.db.Where("id = ? AND recipient_id = ?", notificationID, accountID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendError(c, http.StatusNotFound, "Notification not found")
		} else {
			utils.SendServerError(c, err)
		}
		return
	}

	if err := nc.db.Model(&notification).Update("is_read", true).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendSuccess(c, "Notification marked as read", nil)
}

// MarkAllAsRead marks all notifications as read for the current account
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)

	if err := nc.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", accountID, false).
		Update("is_read", true).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendSuccess(c, "All notifications marked as read", nil)
}
