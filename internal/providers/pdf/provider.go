// Package pdf renders printable documents for the fee ledger.
package pdf

import (
	"bytes"
	"context"
	"io"

	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
)

type Provider interface {
	GenerateReceipt(ctx context.Context, data paymentdomain.ReceiptData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateReceipt(ctx context.Context, data paymentdomain.ReceiptData) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}
