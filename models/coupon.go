package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFlat       DiscountType = "FLAT"
)

type Coupon struct {
	ID                string       `gorm:"type:uuid;primaryKey" json:"id"`
	Code              string       `gorm:"uniqueIndex;not null" json:"code"`
	Description       string       `json:"description"`
	DiscountType      DiscountType `gorm:"type:VARCHAR(15);not null" json:"discount_type"`
	DiscountValue     float64      `gorm:"not null" json:"discount_value"`
	MinOrderAmount    float64      `json:"min_order_amount"`
	MaxDiscountAmount float64      `json:"max_discount_amount"`
	ValidFrom         time.Time    `gorm:"not null" json:"valid_from"`
	ValidTo           time.Time    `gorm:"not null" json:"valid_to"`
	IsActive          bool         `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CouponUsage records a redemption. The unique index is what makes every
// coupon single-use per user.
type CouponUsage struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string    `gorm:"type:uuid;uniqueIndex:idx_user_coupon;not null" json:"user_id"`
	CouponID string    `gorm:"type:uuid;uniqueIndex:idx_user_coupon;not null" json:"coupon_id"`
	UsedAt   time.Time `gorm:"autoCreateTime" json:"used_at"`
}

func (cu *CouponUsage) BeforeCreate(tx *gorm.DB) error {
	if cu.ID == "" {
		cu.ID = uuid.NewString()
	}
	return nil
}
