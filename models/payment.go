package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "COD"
	PaymentMethodRazorpay PaymentMethod = "RAZORPAY"
)

type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "CREATED"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Payment is one-to-one with an order; the unique index on OrderID is
// what enforces it.
type Payment struct {
	ID                string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID           string        `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Order             *Order        `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Amount            float64       `gorm:"not null" json:"amount"`
	Method            PaymentMethod `gorm:"type:VARCHAR(15);not null" json:"method"`
	Status            PaymentStatus `gorm:"type:VARCHAR(15);default:'CREATED'" json:"status"`
	RazorpayOrderID   string        `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string        `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string        `json:"-"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
