package couponControllers

import (
	"math"
	"time"

	"github.com/kartlane/ecommerce-api/models"
	"github.com/kartlane/ecommerce-api/utils"
	"gorm.io/gorm"
)

// ComputeDiscount returns (discountAmount, finalAmount) for a coupon
// applied to an order amount.
//
//	PERCENTAGE: min(amount * value / 100, maxDiscountAmount)
//	FLAT:       min(value, maxDiscountAmount)
//
// The discount never exceeds the amount itself, so the final amount is
// never negative. A non-positive maxDiscountAmount means uncapped.
func ComputeDiscount(coupon *models.Coupon, amount float64) (float64, float64) {
	var discount float64
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		discount = amount * coupon.DiscountValue / 100
	default:
		discount = coupon.DiscountValue
	}

	if coupon.MaxDiscountAmount > 0 {
		discount = math.Min(discount, coupon.MaxDiscountAmount)
	}
	discount = math.Min(discount, amount)

	return discount, amount - discount
}

// Validate checks a coupon code against an order amount for a user and
// returns the coupon with its discount. Every failure is an AppError with
// the status the API surfaces.
func Validate(db *gorm.DB, userID, code string, amount float64) (*models.Coupon, float64, error) {
	var coupon models.Coupon
	if err := db.Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, 0, utils.NotFound("Invalid coupon code")
	}

	if !coupon.IsActive {
		return nil, 0, utils.BadRequest("This coupon is no longer active")
	}

	now := time.Now()
	if now.Before(coupon.ValidFrom) || now.After(coupon.ValidTo) {
		return nil, 0, utils.BadRequest("This coupon has expired or is not yet valid")
	}

	if amount < coupon.MinOrderAmount {
		return nil, 0, utils.BadRequest("Minimum order amount not met for this coupon")
	}

	var usageCount int64
	if err := db.Model(&models.CouponUsage{}).
		Where("user_id = ? AND coupon_id = ?", userID, coupon.ID).
		Count(&usageCount).Error; err != nil {
		return nil, 0, err
	}
	if usageCount > 0 {
		return nil, 0, utils.BadRequest("You have already used this coupon")
	}

	discount, _ := ComputeDiscount(&coupon, amount)
	return &coupon, discount, nil
}
