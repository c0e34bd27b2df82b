// Package domain contains the payment collection models. A payment is an
// append-only record; corrections happen by collecting again, never by
// editing history.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentMode is how the money arrived.
type PaymentMode string

const (
	ModeCash   PaymentMode = "CASH"
	ModeUPI    PaymentMode = "UPI"
	ModeCard   PaymentMode = "CARD"
	ModeCheque PaymentMode = "CHEQUE"
	ModeOnline PaymentMode = "ONLINE"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case ModeCash, ModeUPI, ModeCard, ModeCheque, ModeOnline:
		return true
	}
	return false
}

// Payment is one collection against a monthly fee, in paise.
type Payment struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	SchoolID        snowflake.ID `gorm:"not null;index" json:"school_id"`
	FeeID           snowflake.ID `gorm:"not null;index" json:"fee_id"`
	StudentID       snowflake.ID `gorm:"not null;index" json:"student_id"`
	Amount          int64        `gorm:"not null" json:"amount"`
	Mode            PaymentMode  `gorm:"type:text;not null" json:"mode"`
	ReferenceNumber *string      `gorm:"type:text" json:"reference_number,omitempty"`
	Remarks         *string      `gorm:"type:text" json:"remarks,omitempty"`
	ReceivedBy      snowflake.ID `gorm:"not null" json:"received_by"`
	PaymentDate     time.Time    `gorm:"not null" json:"payment_date"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// CollectRequest records money received against a fee. StudentID is the
// caller's claim of whose fee this is; collection fails if it does not match
// the fee row.
type CollectRequest struct {
	FeeID           string `json:"fee_id"`
	StudentID       string `json:"student_id"`
	Amount          int64  `json:"amount"`
	Mode            string `json:"mode"`
	ReferenceNumber string `json:"reference_number"`
	Remarks         string `json:"remarks"`
	ActingUserID    string `json:"acting_user_id"`
}

// ReceiptData is everything the printed receipt needs, denormalized so the
// renderer touches no repository.
type ReceiptData struct {
	Payment     Payment
	SchoolName  string
	StudentName string
	ClassName   string
	Month       int
	Year        int
	Payable     int64
	TotalPaid   int64
	Due         int64
	ReceivedBy  string
}

type Service interface {
	Collect(ctx context.Context, req CollectRequest) (*Payment, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Payment, error)
	ListByFee(ctx context.Context, feeID snowflake.ID) ([]Payment, error)
	Receipt(ctx context.Context, paymentID snowflake.ID) (*ReceiptData, error)
}

var (
	ErrInvalidFee         = errors.New("invalid_fee")
	ErrInvalidStudent     = errors.New("invalid_student")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidMode        = errors.New("invalid_mode")
	ErrInvalidActingUser  = errors.New("invalid_acting_user")
	ErrFeeNotFound        = errors.New("fee_not_found")
	ErrNotFound           = errors.New("payment_not_found")
	ErrFeeStudentMismatch = errors.New("fee_student_mismatch")

	// ErrExceedsDue is the sentinel every ExceedsDueError matches via
	// errors.Is, so callers can branch without caring about the amount.
	ErrExceedsDue = errors.New("amount_exceeds_due")
)

// ExceedsDueError rejects a payment that would push the collected total past
// the payable amount. Due is what is still owed at rejection time; it is
// zero for a fully paid fee.
type ExceedsDueError struct {
	Due int64
}

func (e *ExceedsDueError) Error() string {
	return fmt.Sprintf("amount exceeds due amount of %d", e.Due)
}

func (e *ExceedsDueError) Is(target error) bool {
	return target == ErrExceedsDue
}
