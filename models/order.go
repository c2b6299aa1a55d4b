package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;index;not null" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Address *Address `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	AddressID string `gorm:"type:uuid;not null" json:"address_id"`
	CouponID  *string `gorm:"type:uuid" json:"coupon_id,omitempty"`
	Coupon    *Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	// TotalAmount is the post-discount amount the customer pays.
	TotalAmount    float64     `gorm:"not null" json:"total_amount"`
	DiscountAmount float64     `json:"discount_amount"`
	Status         OrderStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem snapshots price and quantity at purchase time.
type OrderItem struct {
	ID        string   `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string   `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID string   `gorm:"type:uuid;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Price     float64  `gorm:"not null" json:"price"`
	Quantity  int      `gorm:"not null" json:"quantity"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}
