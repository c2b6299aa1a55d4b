package couponControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kartlane/ecommerce-api/middleware"
	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

type CouponRequest struct {
	Code              string  `json:"code" binding:"required"`
	Description       string  `json:"description"`
	DiscountType      string  `json:"discount_type" binding:"required,oneof=PERCENTAGE FLAT"`
	DiscountValue     float64 `json:"discount_value" binding:"required,gt=0"`
	MinOrderAmount    float64 `json:"min_order_amount" binding:"min=0"`
	MaxDiscountAmount float64 `json:"max_discount_amount" binding:"min=0"`
	ValidFrom         string  `json:"valid_from" binding:"required"`
	ValidTo           string  `json:"valid_to" binding:"required"`
}

func (r *CouponRequest) window() (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, r.ValidFrom)
	if err != nil {
		return time.Time{}, time.Time{}, utils.BadRequest("valid_from must be RFC3339")
	}
	to, err := time.Parse(time.RFC3339, r.ValidTo)
	if err != nil {
		return time.Time{}, time.Time{}, utils.BadRequest("valid_to must be RFC3339")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, utils.BadRequest("valid_to must be after valid_from")
	}
	return from, to, nil
}

// POST /api/coupons (admin)
func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		from, to, err := req.window()
		if err != nil {
			utils.Fail(c, err)
			return
		}

		var existing models.Coupon
		if err := db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
			utils.Fail(c, utils.Conflict("Coupon with this code already exists"))
			return
		}

		coupon := models.Coupon{
			Code:              req.Code,
			Description:       req.Description,
			DiscountType:      models.DiscountType(req.DiscountType),
			DiscountValue:     req.DiscountValue,
			MinOrderAmount:    req.MinOrderAmount,
			MaxDiscountAmount: req.MaxDiscountAmount,
			ValidFrom:         from,
			ValidTo:           to,
			IsActive:          true,
		}
		if err := db.Create(&coupon).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusCreated, "Coupon created successfully", coupon)
	}
}

// PATCH /api/coupons/:id (admin)
func UpdateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupon models.Coupon
		if err := db.First(&coupon, "id = ?", c.Param("id")).Error; err != nil {
			utils.Fail(c, utils.NotFound("Coupon not found"))
			return
		}

		var req CouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		from, to, err := req.window()
		if err != nil {
			utils.Fail(c, err)
			return
		}

		if req.Code != coupon.Code {
			var existing models.Coupon
			if err := db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
				utils.Fail(c, utils.Conflict("Coupon with this code already exists"))
				return
			}
		}

		coupon.Code = req.Code
		coupon.Description = req.Description
		coupon.DiscountType = models.DiscountType(req.DiscountType)
		coupon.DiscountValue = req.DiscountValue
		coupon.MinOrderAmount = req.MinOrderAmount
		coupon.MaxDiscountAmount = req.MaxDiscountAmount
		coupon.ValidFrom = from
		coupon.ValidTo = to
		if err := db.Save(&coupon).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Coupon updated successfully", coupon)
	}
}

// PATCH /api/coupons/:id/toggle (admin)
func ToggleCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupon models.Coupon
		if err := db.First(&coupon, "id = ?", c.Param("id")).Error; err != nil {
			utils.Fail(c, utils.NotFound("Coupon not found"))
			return
		}

		coupon.IsActive = !coupon.IsActive
		if err := db.Save(&coupon).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		message := "Coupon deactivated successfully"
		if coupon.IsActive {
			message = "Coupon activated successfully"
		}
		utils.OK(c, http.StatusOK, message, coupon)
	}
}

// DELETE /api/coupons/:id (admin)
func DeleteCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.Coupon{})
		if result.Error != nil {
			utils.Fail(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			utils.Fail(c, utils.NotFound("Coupon not found"))
			return
		}

		utils.OK(c, http.StatusOK, "Coupon deleted successfully", nil)
	}
}

// GET /api/coupons (admin)
func GetCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Coupon{})
		if active := c.Query("active"); active == "true" {
			query = query.Where("is_active = ?", true)
		} else if active == "false" {
			query = query.Where("is_active = ?", false)
		}

		var coupons []models.Coupon
		if err := query.Order("created_at DESC").Find(&coupons).Error; err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Coupons fetched successfully", coupons)
	}
}

// GET /api/coupons/:id (admin)
func GetCouponByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupon models.Coupon
		err := db.First(&coupon, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(c, utils.NotFound("Coupon not found"))
			return
		}
		if err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Coupon fetched successfully", coupon)
	}
}

type ValidateCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"required,gt=0"`
}

// POST /api/coupons/validate
func ValidateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			utils.Fail(c, utils.Unauthorized("Not logged in"))
			return
		}

		var req ValidateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.BadRequest("Invalid input: "+err.Error()))
			return
		}

		coupon, discount, err := Validate(db, userID, req.Code, req.OrderAmount)
		if err != nil {
			utils.Fail(c, err)
			return
		}

		utils.OK(c, http.StatusOK, "Coupon is valid", gin.H{
			"couponId":       coupon.ID,
			"code":           coupon.Code,
			"discountType":   coupon.DiscountType,
			"discountAmount": discount,
			"finalAmount":    req.OrderAmount - discount,
		})
	}
}
