// File: /controllers/staff_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crewcall-api/models"
	"crewcall-api/repositories"
	"crewcall-api/services"
	"crewcall-api/utils"
)

type StaffController struct {
	db           *gorm.DB
	auth         *AuthController
	matching     *services.MatchingService
	applications *services.ApplicationService
	appRepo      *repositories.ApplicationRepository
}

func NewStaffController(db *gorm.DB, auth *AuthController, matching *services.MatchingService, applications *services.ApplicationService) *StaffController {
	return &StaffController{
		db:           db,
		auth:         auth,
		matching:     matching,
		applications: applications,
		appRepo:      repositories.NewApplicationRepository(db),
	}
}

func (sc *StaffController) Register(c *gin.Context) {
	sc.auth.registerWithRole(c, models.RoleStaff)
}

func (sc *StaffController) Login(c *gin.Context) {
	sc.auth.loginWithRole(c, models.RoleStaff)
}

func (sc *StaffController) GetProfile(c *gin.Context) {
	account, ok := currentAccount(c, sc.db)
	if !ok {
		return
	}
	account.Password = ""
	c.JSON(http.StatusOK, account)
}

type UpdateStaffProfileRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (sc *StaffController) UpdateProfile(c *gin.Context) {
	account, ok := currentAccount(c, sc.db)
	if !ok {
		return
	}

	var req UpdateStaffProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if req.Latitude != nil && !utils.IsValidLatitude(*req.Latitude) {
		utils.SendValidationError(c, "Latitude must be between -90 and 90")
		return
	}
	if req.Longitude != nil && !utils.IsValidLongitude(*req.Longitude) {
		utils.SendValidationError(c, "Longitude must be between -180 and 180")
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
	if req.Latitude != nil {
		updates["latitude"] = req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = req.Longitude
	}

	if len(updates) > 0 {
		if err := sc.db.Model(account).Updates(updates).Error; err != nil {
			utils.SendServerError(c, err)
			return
		}
	}

	account.Password = ""
	utils.SendSuccess(c, "Profile updated successfully", account)
}

// GetNearbyEvents lists approved events within the working radius that the
// staff member has not already applied to.
func (sc *StaffController) GetNearbyEvents(c *gin.Context) {
	account, ok := currentAccount(c, sc.db)
	if !ok {
		return
	}

	events, err := sc.matching.NearbyEvents(account)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func (sc *StaffController) ApplyToEvent(c *gin.Context) {
	account, ok := currentAccount(c, sc.db)
	if !ok {
		return
	}
	eventID := c.Param("eventId")

	app, err := sc.applications.Apply(account, eventID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			utils.SendError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrEventNotAvailable), errors.Is(err, services.ErrOutOfRange):
			utils.SendError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, services.ErrAlreadyApplied):
			utils.SendError(c, http.StatusConflict, err.Error())
		default:
			utils.SendServerError(c, err)
		}
		return
	}

	utils.SendCreated(c, "Application submitted", app.ToResponse())
}

// CancelApplication is idempotent: cancelling an absent or already cancelled
// application still succeeds.
func (sc *StaffController) CancelApplication(c *gin.Context) {
	account, ok := currentAccount(c, sc.db)
	if !ok {
		return
	}
	eventID := c.Param("eventId")

	changed, err := sc.applications.Cancel(account, eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			utils.SendError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.SendServerError(c, err)
		return
	}

	message := "Application cancelled"
	if !changed {
		message = "No active application to cancel"
	}
	utils.SendSuccess(c, message, nil)
}

// GetApplications lists the staff member's active applications. Pass
// include_cancelled=true for the full audit history.
func (sc *StaffController) GetApplications(c *gin.Context) {
	account, ok := currentAccount(c, sc.db)
	if !ok {
		return
	}

	includeCancelled := c.Query("include_cancelled") == "true"
	apps, err := sc.appRepo.ListForStaff(account.ID, includeCancelled)
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

type RateEventRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// RateEvent records a 1-5 rating from staff who worked the event.
func (sc *StaffController) RateEvent(c *gin.Context) {
	account, ok := currentAccount(c, sc.db)
	if !ok {
		return
	}
	eventID := c.Param("eventId")

	var req RateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	if !utils.IsValidRating(req.Rating) {
		utils.SendValidationError(c, "Rating must be between 1 and 5")
		return
	}

	var event models.Event
	if err := sc.db.First(&event, "id = ?", eventID).Error; err != nil {
		utils.SendError(c, http.StatusNotFound, "Event not found")
		return
	}

	// Only staff with an accepted application may rate
	app, err := sc.appRepo.FindByEventAndStaff(eventID, account.ID)
	if err != nil || app.Status != models.ApplicationStatusAccepted {
		utils.SendError(c, http.StatusForbidden, "You can only rate events you were accepted to work")
		return
	}

	rating := models.Rating{
		ID:      uuid.New().String(),
		EventID: eventID,
		StaffID: account.ID,
		Rating:  req.Rating,
		Review:  req.Review,
	}

	if err := sc.db.Create(&rating).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.SendError(c, http.StatusConflict, "You have already rated this event")
			return
		}
		utils.SendServerError(c, err)
		return
	}

	utils.SendCreated(c, "Rating submitted", rating)
}
