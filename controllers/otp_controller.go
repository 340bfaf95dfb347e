// File: /controllers/otp_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"crewcall-api/services"
	"crewcall-api/utils"
)

type OTPController struct {
	otp *services.OTPService
}

func NewOTPController(otp *services.OTPService) *OTPController {
	return &OTPController{otp: otp}
}

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (oc *OTPController) SendOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	code, err := oc.otp.Send(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrOTPCooldown) {
			utils.SendError(c, http.StatusTooManyRequests, err.Error())
			return
		}
		utils.SendServerError(c, err)
		return
	}

	response := gin.H{}
	// Expose the code in debug mode only, for local testing
	if gin.Mode() == gin.DebugMode {
		response["debug_code"] = code
	}
	utils.SendSuccess(c, "Verification code sent", response)
}

func (oc *OTPController) ResendOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	code, err := oc.otp.Resend(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrOTPCooldown) {
			utils.SendError(c, http.StatusTooManyRequests, err.Error())
			return
		}
		utils.SendServerError(c, err)
		return
	}

	response := gin.H{}
	if gin.Mode() == gin.DebugMode {
		response["debug_code"] = code
	}
	utils.SendSuccess(c, "Verification code resent", response)
}

func (oc *OTPController) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	if err := oc.otp.Verify(req.Email, req.Code); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.SendSuccess(c, "Code verified successfully", nil)
}
