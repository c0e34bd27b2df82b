// Package domain contains the read-side fee timeline: one entry per
// calendar month from admission onward, generated or not.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	// EntryNotGenerated marks a month inside the timeline window that has
	// no fee row yet. Generated months carry the fee's own status,
	// lowercased.
	EntryNotGenerated = "not_generated"
)

// EntryPayment is the payment view the timeline renders: the raw row plus
// the collector's display name.
type EntryPayment struct {
	ID              snowflake.ID `json:"id"`
	Amount          int64        `json:"amount"`
	Mode            string       `json:"mode"`
	ReferenceNumber *string      `json:"reference_number,omitempty"`
	PaymentDate     time.Time    `json:"payment_date"`
	ReceivedByName  string       `json:"received_by_name"`
}

// EntryItem is one fee component as shown on the timeline.
type EntryItem struct {
	FeeType string `json:"fee_type"`
	Amount  int64  `json:"amount"`
}

// Entry is one month on a student's timeline. Financial fields are nil for
// months without a generated fee.
type Entry struct {
	Month         int            `json:"month"`
	Year          int            `json:"year"`
	Label         string         `json:"label"`
	Status        string         `json:"status"`
	FeeID         *snowflake.ID  `json:"fee_id,omitempty"`
	TotalAmount   *int64         `json:"total_amount,omitempty"`
	Discount      *int64         `json:"discount,omitempty"`
	PayableAmount *int64         `json:"payable_amount,omitempty"`
	TotalPaid     *int64         `json:"total_paid,omitempty"`
	Due           *int64         `json:"due,omitempty"`
	Items         []EntryItem    `json:"items,omitempty"`
	Payments      []EntryPayment `json:"payments,omitempty"`
}

type Service interface {
	ForStudent(ctx context.Context, studentID snowflake.ID) ([]Entry, error)
}

var ErrStudentNotFound = errors.New("student_not_found")
