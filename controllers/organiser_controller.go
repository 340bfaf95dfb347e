// File: /controllers/organiser_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crewcall-api/middleware"
	"crewcall-api/models"
	"crewcall-api/repositories"
	"crewcall-api/services"
	"crewcall-api/utils"
)

type OrganiserController struct {
	db           *gorm.DB
	auth         *AuthController
	applications *services.ApplicationService
	appRepo      *repositories.ApplicationRepository
}

func NewOrganiserController(db *gorm.DB, auth *AuthController, applications *services.ApplicationService) *OrganiserController {
	return &OrganiserController{
		db:           db,
		auth:         auth,
		applications: applications,
		appRepo:      repositories.NewApplicationRepository(db),
	}
}

func (oc *OrganiserController) Register(c *gin.Context) {
	oc.auth.registerWithRole(c, models.RoleOrganiser)
}

func (oc *OrganiserController) Login(c *gin.Context) {
	oc.auth.loginWithRole(c, models.RoleOrganiser)
}

func (oc *OrganiserController) GetProfile(c *gin.Context) {
	account, ok := currentAccount(c, oc.db)
	if !ok {
		return
	}
	account.Password = ""
	c.JSON(http.StatusOK, account)
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (oc *OrganiserController) UpdateProfile(c *gin.Context) {
	account, ok := currentAccount(c, oc.db)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}

	if len(updates) > 0 {
		if err := oc.db.Model(account).Updates(updates).Error; err != nil {
			utils.SendServerError(c, err)
			return
		}
	}

	account.Password = ""
	utils.SendSuccess(c, "Profile updated successfully", account)
}

type CreateEventRequest struct {
	Name           string    `json:"name" binding:"required"`
	Description    string    `json:"description"`
	VenueAddress   string    `json:"venue_address" binding:"required"`
	VenueLatitude  *float64  `json:"venue_latitude"`
	VenueLongitude *float64  `json:"venue_longitude"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	Priority       string    `json:"priority"`
	RequiredStaff  int       `json:"required_staff" binding:"required,min=1"`
	RequiredSkills []string  `json:"required_skills"`
}

func (oc *OrganiserController) CreateEvent(c *gin.Context) {
	organiserID := c.GetString(middleware.ContextAccountID)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if !req.EndTime.After(req.StartTime) {
		utils.SendValidationError(c, "End time must be after start time")
		return
	}
	if req.VenueLatitude != nil && !utils.IsValidLatitude(*req.VenueLatitude) {
		utils.SendValidationError(c, "Latitude must be between -90 and 90")
		return
	}
	if req.VenueLongitude != nil && !utils.IsValidLongitude(*req.VenueLongitude) {
		utils.SendValidationError(c, "Longitude must be between -180 and 180")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	event := models.Event{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		VenueAddress:   req.VenueAddress,
		VenueLatitude:  req.VenueLatitude,
		VenueLongitude: req.VenueLongitude,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Priority:       priority,
		RequiredStaff:  req.RequiredStaff,
		RequiredSkills: models.StringSlice(req.RequiredSkills),
		OrganiserID:    organiserID,
	}

	if err := oc.db.Create(&event).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendCreated(c, "Event created and awaiting approval", event.ToResponse())
}

func (oc *OrganiserController) GetEvents(c *gin.Context) {
	organiserID := c.GetString(middleware.ContextAccountID)

	var events []models.Event
	if err := oc.db.Preload("Applications").Preload("Attachments").
		Where("organiser_id = ?", organiserID).
		Order("start_time ASC").Find(&events).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	responses := make([]models.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// ownedEvent loads the event and enforces ownership; admins bypass the
// ownership check.
func (oc *OrganiserController) ownedEvent(c *gin.Context, action string) (*models.Event, bool) {
	accountID := c.GetString(middleware.ContextAccountID)
	role := models.Role(c.GetString(middleware.ContextRole))
	eventID := c.Param("id")

	var event models.Event
	if err := oc.db.First(&event, "id = ?", eventID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Event not found")
		return nil, false
	}

	if event.OrganiserID != accountID && role != models.RoleAdmin {
		utils.SendError(c, http.StatusForbidden, "You can only "+action+" your own events")
		return nil, false
	}
	return &event, true
}

func (oc *OrganiserController) GetEvent(c *gin.Context) {
	event, ok := oc.ownedEvent(c, "view")
	if !ok {
		return
	}

	if err := oc.db.Preload("Applications").Preload("Applications.Staff").
		Preload("Attachments").Preload("Ratings").
		First(event, "id = ?", event.ID).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, event.ToResponse())
}

func (oc *OrganiserController) UpdateEvent(c *gin.Context) {
	event, ok := oc.ownedEvent(c, "update")
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	if !req.EndTime.After(req.StartTime) {
		utils.SendValidationError(c, "End time must be after start time")
		return
	}
	if req.VenueLatitude != nil && !utils.IsValidLatitude(*req.VenueLatitude) {
		utils.SendValidationError(c, "Latitude must be between -90 and 90")
		return
	}
	if req.VenueLongitude != nil && !utils.IsValidLongitude(*req.VenueLongitude) {
		utils.SendValidationError(c, "Longitude must be between -180 and 180")
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	// OrganiserID is never part of the update set; ownership is immutable.
	updates := map[string]interface{}{
		"name":            req.Name,
		"description":     req.Description,
		"venue_address":   req.VenueAddress,
		"venue_latitude":  req.VenueLatitude,
		"venue_longitude": req.VenueLongitude,
		"start_time":      req.StartTime,
		"end_time":        req.EndTime,
		"priority":        priority,
		"required_staff":  req.RequiredStaff,
		"required_skills": models.StringSlice(req.RequiredSkills),
	}

	if err := oc.db.Model(event).Updates(updates).Error; err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendSuccess(c, "Event updated successfully", event.ToResponse())
}

func (oc *OrganiserController) DeleteEvent(c *gin.Context) {
	event, ok := oc.ownedEvent(c, "delete")
	if !ok {
		return
	}

	err := oc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	utils.SendSuccess(c, "Event deleted successfully", nil)
}

func (oc *OrganiserController) GetEventApplications(c *gin.Context) {
	event, ok := oc.ownedEvent(c, "view applications for")
	if !ok {
		return
	}

	apps, err := oc.appRepo.ListForEvent(event.ID)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	responses := make([]models.ApplicationResponse, 0, len(apps))
	for i := range apps {
		responses = append(responses, apps[i].ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

type ReviewApplicationRequest struct {
	Decision models.ApplicationStatus `json:"decision" binding:"required"`
}

func (oc *OrganiserController) ReviewApplication(c *gin.Context) {
	reviewer, ok := currentAccount(c, oc.db)
	if !ok {
		return
	}
	eventID := c.Param("id")
	staffID := c.Param("staffId")

	var req ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	app, err := oc.applications.Review(reviewer, eventID, staffID, req.Decision)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDecision):
			utils.SendValidationError(c, err.Error())
		case errors.Is(err, services.ErrEventNotFound), errors.Is(err, services.ErrApplicationNotFound):
			utils.SendError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrNotEventOwner):
			utils.SendError(c, http.StatusForbidden, "You can only review applications on your own events")
		case errors.Is(err, services.ErrApplicationDecided):
			utils.SendError(c, http.StatusConflict, err.Error())
		default:
			utils.SendServerError(c, err)
		}
		return
	}

	utils.SendSuccess(c, "Application "+string(app.Status), app.ToResponse())
}
