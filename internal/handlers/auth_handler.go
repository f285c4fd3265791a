package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/carelinkhq/care-portal/internal/cache"
	"github.com/carelinkhq/care-portal/internal/config"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/httpresp"
	"github.com/carelinkhq/care-portal/internal/middleware"
	"github.com/carelinkhq/care-portal/internal/models"
	"github.com/carelinkhq/care-portal/internal/validators"
)

const doctorsCacheKey = "portal:doctors"

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	cache  *cache.Cache
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, cc *cache.Cache) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, cache: cc}
}

// --------- Requests ---------

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RolePatient
	}
	if !models.ValidRole(role) {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "An account with this email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create account.")
		return
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "An account with this email already exists.")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Could not create account.")
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Account created. Please log in.",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Could not log in.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not log in.")
		return
	}

	httpresp.OK(c, gin.H{
		"user":  &user,
		"token": token,
	})
}

// FetchProfile backs the client's session refresh: it re-derives the
// current user from the bearer token alone.
func (h *AuthHandler) FetchProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		httperr.Unauthorized(c, "user_not_found", "Account no longer exists.")
		return
	}

	httpresp.OK(c, gin.H{"user": &user})
}

func (h *AuthHandler) FetchAllDoctors(c *gin.Context) {
	ctx := c.Request.Context()

	var doctors []models.User
	if !h.cache.GetJSON(ctx, doctorsCacheKey, &doctors) {
		if err := h.db.
			Where("role = ?", models.RoleDoctor).
			Order("last_name ASC, first_name ASC").
			Find(&doctors).Error; err != nil {
			httperr.Internal(c, "failed_to_list_doctors", "Could not load doctors.")
			return
		}
		h.cache.SetJSON(ctx, doctorsCacheKey, doctors, time.Minute)
	}

	httpresp.OK(c, gin.H{"doctors": doctors})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
