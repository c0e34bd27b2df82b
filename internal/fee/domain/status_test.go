package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name    string
		paid    int64
		payable int64
		want    PaymentStatus
	}{
		{"nothing paid", 0, 5000, StatusUnpaid},
		{"partially paid", 3000, 8000, StatusPartial},
		{"exactly paid", 8000, 8000, StatusPaid},
		{"one paise short", 7999, 8000, StatusPartial},
		{"one paise over threshold", 8001, 8000, StatusPaid},
		{"zero payable, zero paid", 0, 0, StatusPaid},
		{"single paise obligation unpaid", 0, 1, StatusUnpaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.paid, tc.payable))
		})
	}
}
