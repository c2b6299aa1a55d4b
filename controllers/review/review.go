package reviewControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// POST /api/reviews/:productId
//
// One review per user per product.
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		productID := c.Param("productId")
		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			utils.Fail(c, utils.NotFound("Product not found"))
			return
		}

		var existing models.Review
		if err := db.Where("user_id = ? AND product_id = ?", userID, productID).
			First(&existing).Error; err == nil {
			utils.Fail(c, utils.Conflict("You have already reviewed this product"))
			return
		}

		review := models.Review{
			UserID:    userID,
			ProductID: productID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusCreated, "Review submitted successfully", review)
	}
}

// PATCH /api/reviews/:productId
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		var review models.Review
		err := db.Where("user_id = ? AND product_id = ?", userID, c.Param("productId")).
			First(&review).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(c, utils.NotFound("Review not found"))
			return
		}
		if err != nil {
			utils.Fail(c, err)
			return
		}

		review.Rating = req.Rating
		review.Comment = req.Comment
		if err := db.Save(&review).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Review updated successfully", review)
	}
}

// GET /api/reviews/:productId
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.Preload("User").
			Where("product_id = ?", c.Param("productId")).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		var average float64
		for _, r := range reviews {
			average += float64(r.Rating)
		}
		if len(reviews) > 0 {
			average /= float64(len(reviews))
		}

		utils.OK(c, http.StatusOK, "Reviews fetched successfully", gin.H{
			"reviews":       reviews,
			"averageRating": average,
			"count":         len(reviews),
		})
	}
}

// DELETE /api/reviews/:productId
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		result := db.Where("user_id = ? AND product_id = ?", userID, c.Param("productId")).
			Delete(&models.Review{})
		if result.Error != nil {
			utils.Fail(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			utils.Fail(c, utils.NotFound("Review not found"))
			return
		}

		utils.OK(c, http.StatusOK, "Review deleted successfully", nil)
	}
}
