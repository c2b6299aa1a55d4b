package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is shared by the cancellation and return state machines.
//
//	REQUESTED -> APPROVED | REJECTED
//	APPROVED  -> COMPLETED
//	REJECTED, COMPLETED are terminal
type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "REQUESTED"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCompleted RequestStatus = "COMPLETED"
)

type OrderCancellation struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     string        `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Order       *Order        `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	UserID      string        `gorm:"type:uuid;index;not null" json:"user_id"`
	Reason      string        `gorm:"not null" json:"reason"`
	Status      RequestStatus `gorm:"type:VARCHAR(15);default:'REQUESTED'" json:"status"`
	RequestedAt time.Time     `gorm:"autoCreateTime" json:"requested_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
}

func (oc *OrderCancellation) BeforeCreate(tx *gorm.DB) error {
	if oc.ID == "" {
		oc.ID = uuid.NewString()
	}
	return nil
}

type OrderReturn struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     string        `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Order       *Order        `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	UserID      string        `gorm:"type:uuid;index;not null" json:"user_id"`
	Reason      string        `gorm:"not null" json:"reason"`
	Status      RequestStatus `gorm:"type:VARCHAR(15);default:'REQUESTED'" json:"status"`
	RequestedAt time.Time     `gorm:"autoCreateTime" json:"requested_at"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
}

func (or *OrderReturn) BeforeCreate(tx *gorm.DB) error {
	if or.ID == "" {
		or.ID = uuid.NewString()
	}
	return nil
}
