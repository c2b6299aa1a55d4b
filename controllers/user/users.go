package userControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

// GET /api/users/me
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var user models.User
		if err := db.Preload("Addresses").First(&user, "id = ?", userID).Error; err != nil {
			utils.Fail(c, utils.NotFound("User not found"))
			return
		}

		utils.OK(c, http.StatusOK, "Profile fetched successfully", user)
	}
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PATCH /api/users/me
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		updates := map[string]interface{}{}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Phone != "" {
			updates["phone"] = req.Phone
		}
		if len(updates) == 0 {
			utils.Fail(c, utils.BadRequest("Nothing to update"))
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			utils.Fail(c, err)
			return
		}
		utils.OK(c, http.StatusOK, "Profile updated successfully", user)
	}
}

// GET /api/users (admin)
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		var users []models.User
		var total int64
		if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
			utils.Fail(c, err)
			return
		}
		if err := db.Order("created_at DESC").
			Offset((page - 1) * limit).Limit(limit).
			Find(&users).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Users fetched successfully", utils.Paginated(users, total, page, limit))
	}
}
