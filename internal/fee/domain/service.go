package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// GenerateRequest is one explicit administrative action: create the fee for
// one student for one calendar month.
type GenerateRequest struct {
	StudentID       string `json:"student_id"`
	Month           int    `json:"month"`
	Year            int    `json:"year"`
	Hostel          bool   `json:"hostel"`
	TransportAreaID string `json:"transport_area_id"`
	Discount        int64  `json:"discount"`
	DiscountReason  string `json:"discount_reason"`
	NewAdmission    bool   `json:"new_admission"`
	ActingUserID    string `json:"acting_user_id"`
}

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*MonthlyFee, error)
	GetByID(ctx context.Context, id snowflake.ID) (*MonthlyFee, error)
	ListByStudent(ctx context.Context, studentID snowflake.ID) ([]MonthlyFee, error)
}

var (
	ErrInvalidStudent           = errors.New("invalid_student")
	ErrInvalidMonth             = errors.New("invalid_month")
	ErrInvalidYear              = errors.New("invalid_year")
	ErrInvalidDiscount          = errors.New("invalid_discount")
	ErrInvalidTransportArea     = errors.New("invalid_transport_area")
	ErrInvalidActingUser        = errors.New("invalid_acting_user")
	ErrHostelTransportExclusive = errors.New("hostel_transport_exclusive")
	ErrStudentHasNoClass        = errors.New("student_has_no_class")
	ErrNoFeeItems               = errors.New("no_fee_items")
	ErrDiscountExceedsSubtotal  = errors.New("discount_exceeds_subtotal")
	ErrAlreadyGenerated         = errors.New("fee_already_generated")
	ErrNotFound                 = errors.New("fee_not_found")
	ErrStudentNotFound          = errors.New("student_not_found")
)
