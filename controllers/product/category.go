package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// POST /api/category (admin)
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		var existing models.Category
		if err := db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
			utils.Fail(c, utils.Conflict("Category with this name already exists"))
			return
		}

		category := models.Category{Name: req.Name, Description: req.Description}
		if err := db.Create(&category).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusCreated, "Category created successfully", category)
	}
}

// PATCH /api/category/:id (admin)
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			utils.Fail(c, utils.NotFound("Category not found"))
			return
		}

		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		category.Name = req.Name
		category.Description = req.Description
		if err := db.Save(&category).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Category updated successfully", category)
	}
}

// DELETE /api/category/:id (admin)
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.Category{})
		if result.Error != nil {
			utils.Fail(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			utils.Fail(c, utils.NotFound("Category not found"))
			return
		}

		utils.OK(c, http.StatusOK, "Category deleted successfully", nil)
	}
}

// GET /api/category
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name ASC").Find(&categories).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Categories fetched successfully", categories)
	}
}

// GET /api/category/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		err := db.Preload("Products").First(&category, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(c, utils.NotFound("Category not found"))
			return
		}
		if err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Category fetched successfully", category)
	}
}
