package bannerControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

type BannerRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"image_url" binding:"required,url"`
}

// GET /api/banners
//
// Public storefront endpoint; only active banners are returned.
func GetActiveBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.Where("is_active = ?", true).
			Order("created_at DESC").
			Find(&banners).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Banners fetched successfully", banners)
	}
}

// GET /api/banners/all (admin)
func GetAllBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.Order("created_at DESC").Find(&banners).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Banners fetched successfully", banners)
	}
}

// POST /api/banners (admin)
func CreateBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BannerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		banner := models.Banner{
			Title:    req.Title,
			ImageURL: req.ImageURL,
			IsActive: true,
		}
		if err := db.Create(&banner).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusCreated, "Banner created successfully", banner)
	}
}

// PATCH /api/banners/:id/toggle (admin)
func ToggleBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banner models.Banner
		if err := db.First(&banner, "id = ?", c.Param("id")).Error; err != nil {
			utils.Fail(c, utils.NotFound("Banner not found"))
			return
		}

		banner.IsActive = !banner.IsActive
		if err := db.Save(&banner).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Banner updated successfully", banner)
	}
}

// DELETE /api/banners/:id (admin)
func DeleteBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.Banner{})
		if result.Error != nil {
			utils.Fail(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			utils.Fail(c, utils.NotFound("Banner not found"))
			return
		}

		utils.OK(c, http.StatusOK, "Banner deleted successfully", nil)
	}
}
