package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/costuraflow/atelier-scheduler/internal/config"
	"github.com/costuraflow/atelier-scheduler/internal/middleware"
	"github.com/costuraflow/atelier-scheduler/internal/models"
	"github.com/costuraflow/atelier-scheduler/internal/rangecache"
	"github.com/costuraflow/atelier-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	caches *rangecache.Registry
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, caches *rangecache.Registry) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, caches: caches}
}

// --------- Requests ---------

type RegisterRequest struct {
	AtelierName    string `json:"atelier_name" binding:"required"`
	AtelierSlug    string `json:"atelier_slug" binding:"required"`
	AtelierPhone   string `json:"atelier_phone"`
	AtelierAddress string `json:"atelier_address"`
	Timezone       string `json:"timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !validators.IsEmailDomainValid(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_email_domain"})
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.AtelierSlug))

	var count int64
	h.db.Model(&models.Atelier{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	shop := models.Atelier{
		Name:     req.AtelierName,
		Slug:     slug,
		Phone:    req.AtelierPhone,
		Address:  req.AtelierAddress,
		Timezone: req.Timezone,
	}

	if err := h.db.Create(&shop).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_atelier"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		AtelierID:    shop.ID,
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	token, err := h.signToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_sign_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"user_id":    user.ID,
		"atelier_id": shop.ID,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	var user models.User
	if err := h.db.
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(req.Password),
	); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	token, err := h.signToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_sign_token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"user_id":    user.ID,
		"atelier_id": user.AtelierID,
	})
}

// Logout tears down the shop's session cache; the next login starts
// with a cold calendar.
func (h *AuthHandler) Logout(c *gin.Context) {
	atelierID := c.MustGet(middleware.ContextAtelierID).(uint)
	h.caches.Drop(atelierID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":       float64(user.ID),
		"atelierId": float64(user.AtelierID),
		"role":      user.Role,
		"exp":       time.Now().Add(72 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
