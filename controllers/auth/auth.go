package authControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/config"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 5 * time.Minute

type Handler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer *utils.EmailService
	logger *zap.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, mailer *utils.EmailService, logger *zap.Logger) *Handler {
	return &Handler{db: db, cfg: cfg, mailer: mailer, logger: logger}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates an unverified user and e-mails a one-time code.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Fail(c, utils.Conflict("A user with this email already exists"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := h.db.Create(&user).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	if err := h.issueOTP(&user); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusCreated, "OTP sent", gin.H{"userId": user.ID})
}

func (h *Handler) issueOTP(user *models.User) error {
	otp := utils.GenerateOTP()
	record := models.OTPVerification{
		UserID:    user.ID,
		Code:      otp,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := h.db.Create(&record).Error; err != nil {
		return err
	}
	if err := h.mailer.SendOTPEmail(user.Name, user.Email, otp); err != nil {
		h.logger.Error("failed to send OTP email", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

type VerifyOTPRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	OTP    string `json:"otp" binding:"required,len=6"`
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	var record models.OTPVerification
	err := h.db.Where("user_id = ? AND code = ? AND verified = ?", req.UserID, req.OTP, false).
		Order("created_at DESC").
		First(&record).Error
	if err != nil || record.ExpiresAt.Before(time.Now()) {
		utils.Fail(c, utils.BadRequest("Invalid or expired OTP"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OTPVerification{}).Where("id = ?", record.ID).
			Update("verified", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", req.UserID).
			Update("is_verified", true).Error
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Account verified", nil)
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) ResendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Fail(c, utils.Unauthorized("Invalid credentials"))
		return
	}

	if err := h.issueOTP(&user); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, http.StatusOK, "Verification email sent", nil)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
		return
	}
	if req.Email == "" && req.Phone == "" {
		utils.Fail(c, utils.BadRequest("Email or phone is required"))
		return
	}

	// Phone is optional at registration, so an empty value must never
	// reach the predicate: phone = '' would match every phone-less user.
	query := h.db
	switch {
	case req.Email != "" && req.Phone != "":
		query = query.Where("email = ? OR phone = ?", req.Email, req.Phone)
	case req.Email != "":
		query = query.Where("email = ?", req.Email)
	default:
		query = query.Where("phone = ?", req.Phone)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		utils.Fail(c, utils.Unauthorized("Invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Fail(c, utils.Unauthorized("Invalid credentials"))
		return
	}

	accessToken, err := utils.GenerateAccessToken(h.cfg.JWTAccessSecret, &user)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(h.cfg.JWTRefreshSecret, &user)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	stored := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(utils.RefreshTokenTTL),
	}
	if err := h.db.Create(&stored).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	utils.OK(c, http.StatusOK, "Logged in", gin.H{
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"role":        user.Role,
			"is_verified": user.IsVerified,
		},
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || raw == "" {
		utils.Fail(c, utils.Unauthorized("Not logged in"))
		return
	}

	var stored models.RefreshToken
	if err := h.db.Where("token_hash = ?", utils.HashToken(raw)).First(&stored).Error; err != nil {
		utils.Fail(c, utils.Unauthorized("Invalid refresh token"))
		return
	}
	if stored.Revoked || stored.ExpiresAt.Before(time.Now()) {
		utils.Fail(c, utils.Unauthorized("Invalid refresh token"))
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		utils.Fail(c, utils.Unauthorized("User not found"))
		return
	}

	accessToken, err := utils.GenerateAccessToken(h.cfg.JWTAccessSecret, &user)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken,
		int(utils.AccessTokenTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
	utils.OK(c, http.StatusOK, "Token refreshed", nil)
}

func (h *Handler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && raw != "" {
		h.db.Model(&models.RefreshToken{}).
			Where("token_hash = ?", utils.HashToken(raw)).
			Update("revoked", true)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
	utils.OK(c, http.StatusOK, "Logged out", nil)
}

func (h *Handler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken,
		int(utils.AccessTokenTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
	c.SetCookie(middleware.RefreshTokenCookie, refreshToken,
		int(utils.RefreshTokenTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
}
