// Package domain contains the monthly fee ledger models. Amounts are
// int64 paise throughout.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// FeeType identifies one priced component of a monthly fee.
type FeeType string

const (
	FeeTypeTuition   FeeType = "TUITION"
	FeeTypeHostel    FeeType = "HOSTEL"
	FeeTypeTransport FeeType = "TRANSPORT"
	FeeTypeAdmission FeeType = "ADMISSION"
)

// PaymentStatus is the lifecycle state of a monthly fee. It is always
// derived from the payment sum, never stored independently of it.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "UNPAID"
	StatusPartial PaymentStatus = "PARTIAL"
	StatusPaid    PaymentStatus = "PAID"
)

// StatusFor derives the payment status from the payment sum and the payable
// amount. A zero-payable fee (discount equal to subtotal) reads PAID: there
// is nothing left to owe the moment it is generated.
func StatusFor(totalPaid, payable int64) PaymentStatus {
	switch {
	case totalPaid >= payable:
		return StatusPaid
	case totalPaid > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// FeeItem is one computed billable component, not yet attached to a fee.
type FeeItem struct {
	FeeType FeeType `json:"fee_type"`
	Amount  int64   `json:"amount"`
}

// MonthlyFee is the billing obligation for one student for one calendar
// month. Exactly one row may exist per (student, month, year); the unique
// index is the authoritative guard.
type MonthlyFee struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	SchoolID       snowflake.ID   `gorm:"not null;index" json:"school_id"`
	StudentID      snowflake.ID   `gorm:"not null;index;uniqueIndex:ux_monthly_fees_student_period" json:"student_id"`
	Month          int            `gorm:"not null;uniqueIndex:ux_monthly_fees_student_period" json:"month"` // 1..12
	Year           int            `gorm:"not null;uniqueIndex:ux_monthly_fees_student_period" json:"year"`
	TotalAmount    int64          `gorm:"not null" json:"total_amount"`   // sum of line items before discount
	Discount       int64          `gorm:"not null;default:0" json:"discount"`
	PayableAmount  int64          `gorm:"not null" json:"payable_amount"` // total - discount
	Status         PaymentStatus  `gorm:"type:text;not null;default:'UNPAID'" json:"status"`
	DiscountReason *string        `gorm:"type:text" json:"discount_reason,omitempty"`
	GeneratedBy    snowflake.ID   `gorm:"not null" json:"generated_by"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Items []FeeLineItem `gorm:"foreignKey:FeeID" json:"items,omitempty"`
}

func (MonthlyFee) TableName() string { return "monthly_fees" }

// FeeLineItem is one component of a monthly fee. Created in bulk with the
// fee, immutable afterward, cascade-deleted with it.
type FeeLineItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	FeeID     snowflake.ID `gorm:"not null;index" json:"fee_id"`
	FeeType   FeeType      `gorm:"type:text;not null" json:"fee_type"`
	Amount    int64        `gorm:"not null" json:"amount"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (FeeLineItem) TableName() string { return "fee_line_items" }
