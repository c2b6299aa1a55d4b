package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// POST /api/cart
//
// Upserts the (user, product) line: adding a product already in the cart
// replaces its quantity.
func UpsertCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var req CartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			utils.Fail(c, utils.NotFound("Product not found"))
			return
		}
		if product.Stock < req.Quantity {
			utils.Fail(c, utils.BadRequest("Insufficient stock available"))
			return
		}

		var item models.CartItem
		err := db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				UserID:    userID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			}
			if err := db.Create(&item).Error; err != nil {
				utils.Fail(c, err)
				return
			}
			utils.OK(c, http.StatusCreated, "Product added to cart", item)
			return
		}
		if err != nil {
			utils.Fail(c, err)
			return
		}

		item.Quantity = req.Quantity
		if err := db.Save(&item).Error; err != nil {
			utils.Fail(c, err)
			return
		}
		utils.OK(c, http.StatusOK, "Cart item updated", item)
	}
}

type cartLine struct {
	models.CartItem
	Subtotal float64 `json:"subtotal"`
}

// GET /api/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var items []models.CartItem
		if err := db.Preload("Product").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&items).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		lines := make([]cartLine, 0, len(items))
		totalItems := 0
		subtotal := 0.0
		for _, item := range items {
			line := cartLine{CartItem: item}
			if item.Product != nil {
				line.Subtotal = item.Product.EffectivePrice() * float64(item.Quantity)
			}
			totalItems += item.Quantity
			subtotal += line.Subtotal
			lines = append(lines, line)
		}

		utils.OK(c, http.StatusOK, "Cart items fetched successfully", gin.H{
			"cartItems": lines,
			"summary": gin.H{
				"totalItems":    totalItems,
				"totalProducts": len(items),
				"subtotal":      subtotal,
			},
		})
	}
}

// DELETE /api/cart/:productId
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		result := db.Where("user_id = ? AND product_id = ?", userID, c.Param("productId")).
			Delete(&models.CartItem{})
		if result.Error != nil {
			utils.Fail(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			utils.Fail(c, utils.NotFound("Cart item not found"))
			return
		}

		utils.OK(c, http.StatusOK, "Item removed from cart", nil)
	}
}

// DELETE /api/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		result := db.Where("user_id = ?", userID).Delete(&models.CartItem{})
		if result.Error != nil {
			utils.Fail(c, result.Error)
			return
		}

		utils.OK(c, http.StatusOK, "Cart cleared successfully", gin.H{
			"deletedCount": result.RowsAffected,
		})
	}
}
