package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price" binding:"omitempty,gt=0"`
	Stock         int      `json:"stock" binding:"min=0"`
	ImageURL      string   `json:"image_url"`
	CategoryID    string   `json:"category_id" binding:"required,uuid"`
}

// POST /api/products (admin)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
			utils.Fail(c, utils.NotFound("Category not found"))
			return
		}

		product := models.Product{
			Title:         req.Title,
			Description:   req.Description,
			Price:         req.Price,
			DiscountPrice: req.DiscountPrice,
			Stock:         req.Stock,
			ImageURL:      req.ImageURL,
			CategoryID:    req.CategoryID,
		}
		if err := db.Create(&product).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusCreated, "Product created successfully", product)
	}
}

// PATCH /api/products/:id (admin)
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			utils.Fail(c, utils.NotFound("Product not found"))
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		if req.CategoryID != product.CategoryID {
			var category models.Category
			if err := db.First(&category, "id = ?", req.CategoryID).Error; err != nil {
				utils.Fail(c, utils.NotFound("Category not found"))
				return
			}
		}

		product.Title = req.Title
		product.Description = req.Description
		product.Price = req.Price
		product.DiscountPrice = req.DiscountPrice
		product.Stock = req.Stock
		product.ImageURL = req.ImageURL
		product.CategoryID = req.CategoryID
		if err := db.Save(&product).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Product updated successfully", product)
	}
}

// DELETE /api/products/:id (admin, soft delete)
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.Product{})
		if result.Error != nil {
			utils.Fail(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			utils.Fail(c, utils.NotFound("Product not found"))
			return
		}

		utils.OK(c, http.StatusOK, "Product deleted successfully", nil)
	}
}

// GET /api/products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		if limit < 1 || limit > 100 {
			limit = 10
		}

		query := db.Model(&models.Product{})
		if categoryID := c.Query("category"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("title ILIKE ?", "%"+search+"%")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		var products []models.Product
		if err := query.Preload("Category").
			Order("created_at DESC").
			Offset((page - 1) * limit).Limit(limit).
			Find(&products).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Products fetched successfully", utils.Paginated(products, total, page, limit))
	}
}

// GET /api/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.Preload("Category").First(&product, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(c, utils.NotFound("Product not found"))
			return
		}
		if err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Product fetched successfully", product)
	}
}
