package couponControllers

import (
	"testing"

	"github.com/kartlane/ecommerce-api/models"
)

func TestComputeDiscountPercentageCapped(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:      models.DiscountPercentage,
		DiscountValue:     10,
		MaxDiscountAmount: 50,
	}

	discount, final := ComputeDiscount(coupon, 1000)
	if discount != 50 {
		t.Fatalf("expected discount 50, got %v", discount)
	}
	if final != 950 {
		t.Fatalf("expected final 950, got %v", final)
	}
}

func TestComputeDiscountPercentageUncapped(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 25,
	}

	discount, final := ComputeDiscount(coupon, 400)
	if discount != 100 {
		t.Fatalf("expected discount 100, got %v", discount)
	}
	if final != 300 {
		t.Fatalf("expected final 300, got %v", final)
	}
}

func TestComputeDiscountFlat(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountFlat,
		DiscountValue: 75,
	}

	discount, final := ComputeDiscount(coupon, 200)
	if discount != 75 {
		t.Fatalf("expected discount 75, got %v", discount)
	}
	if final != 125 {
		t.Fatalf("expected final 125, got %v", final)
	}
}

func TestComputeDiscountFlatCapped(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:      models.DiscountFlat,
		DiscountValue:     100,
		MaxDiscountAmount: 60,
	}

	discount, _ := ComputeDiscount(coupon, 500)
	if discount != 60 {
		t.Fatalf("expected discount 60, got %v", discount)
	}
}

func TestComputeDiscountNeverExceedsAmount(t *testing.T) {
	coupon := &models.Coupon{
		DiscountType:  models.DiscountFlat,
		DiscountValue: 500,
	}

	discount, final := ComputeDiscount(coupon, 120)
	if discount != 120 {
		t.Fatalf("expected discount clamped to 120, got %v", discount)
	}
	if final != 0 {
		t.Fatalf("expected final 0, got %v", final)
	}
}
