// File: /controllers/auth_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crewcall-api/middleware"
	"crewcall-api/models"
	"crewcall-api/utils"
)

const tokenLifetime = 24 * time.Hour

type AuthController struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthController(db *gorm.DB, jwtSecret string) *AuthController {
	return &AuthController{db: db, jwtSecret: jwtSecret}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`

	// Staff registrations carry a work location
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token   string         `json:"token"`
	Account models.Account `json:"account"`
}

// Register creates a generic user account.
func (ac *AuthController) Register(c *gin.Context) {
	ac.registerWithRole(c, models.RoleUser)
}

// Login authenticates a generic user account. Admins have no portal of
// their own and sign in here too.
func (ac *AuthController) Login(c *gin.Context) {
	ac.loginWithRole(c, models.RoleUser, models.RoleAdmin)
}

// registerWithRole is shared by the user, organiser and staff portals.
func (ac *AuthController) registerWithRole(c *gin.Context, role models.Role) {
	var req RegisterRequest
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

	// Check if account already exists
	var existing models.Account
	if err := ac.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.SendError(c, http.StatusConflict, "Email already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	account := models.Account{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Phone:     req.Phone,
		Role:      role,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := ac.db.Create(&account).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.SendError(c, http.StatusConflict, "Email already registered")
			return
		}
		utils.SendServerError(c, err)
		return
	}

	token, err := ac.GenerateToken(&account)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	account.Password = ""
	utils.SendCreated(c, "Registration successful", AuthResponse{Token: token, Account: account})
}

// loginWithRole authenticates against the role-scoped portal; an organiser
// cannot log in through the staff endpoint and vice versa.
func (ac *AuthController) loginWithRole(c *gin.Context, roles ...models.Role) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var account models.Account
	if err := ac.db.Where("email = ? AND role IN ?", req.Email, roles).First(&account).Error; err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := ac.GenerateToken(&account)
	if err != nil {
		utils.SendServerError(c, err)
		return
	}

	account.Password = ""
	utils.SendSuccess(c, "Login successful", AuthResponse{Token: token, Account: account})
}

// GenerateToken signs a JWT carrying the account identity and role.
func (ac *AuthController) GenerateToken(account *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"account_id": account.ID,
		"role":       string(account.Role),
		"exp":        time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.jwtSecret))
}

// currentAccount loads the authenticated account from the token identity.
func currentAccount(c *gin.Context, db *gorm.DB) (*models.Account, bool) {
	accountID := c.GetString(middleware.ContextAccountID)

	var account models.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		utils.SendError(c, http.StatusUnauthorized, "Account not found")
		return nil, false
	}
	return &account, true
}
