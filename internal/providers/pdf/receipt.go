package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct{}

func NewMarotoProvider() Provider {
	return &MarotoProvider{}
}

// GenerateReceipt renders the payment receipt handed to the guardian at the
// counter. Amounts arrive in paise and print in rupees.
func (p *MarotoProvider) GenerateReceipt(ctx context.Context, data paymentdomain.ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		col.New(8).Add(
			text.New(data.SchoolName, props.Text{Size: 16, Style: fontstyle.Bold}),
			text.New("Fee Payment Receipt", props.Text{Size: 11, Top: 9}),
		),
		col.New(4).Add(
			text.New("Receipt no: "+data.Payment.ID.String(), props.Text{Size: 9, Align: align.Right}),
			text.New("Date: "+data.Payment.PaymentDate.Format("02 Jan 2006"), props.Text{Size: 9, Top: 5, Align: align.Right}),
		),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New("Student: "+data.StudentName, props.Text{Size: 10}),
			text.New("Class: "+data.ClassName, props.Text{Size: 10, Top: 5}),
			text.New("Fee period: "+periodLabel(data.Month, data.Year), props.Text{Size: 10, Top: 10}),
		),
		col.New(6).Add(
			text.New("Mode: "+string(data.Payment.Mode), props.Text{Size: 10}),
			text.New("Received by: "+data.ReceivedBy, props.Text{Size: 10, Top: 5}),
			text.New(referenceLine(data.Payment.ReferenceNumber), props.Text{Size: 10, Top: 10}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, formatPaise(data.Payment.Amount)+" received", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   4,
		}),
	)

	m.AddRow(10,
		text.NewCol(8, "", props.Text{}),
		text.NewCol(2, "Payable", props.Text{Size: 9}),
		text.NewCol(2, formatPaise(data.Payable), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Paid to date", props.Text{Size: 9}),
		text.NewCol(2, formatPaise(data.TotalPaid), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Balance due", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, formatPaise(data.Due), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func periodLabel(month, year int) string {
	return fmt.Sprintf("%s %d", time.Month(month), year)
}

func referenceLine(ref *string) string {
	if ref == nil {
		return "Reference: -"
	}
	return "Reference: " + *ref
}

func formatPaise(p int64) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%sRs %d.%02d", sign, p/100, p%100)
}
