package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	timelinedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/timeline/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) timelinedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("timeline.service"),
	}
}

// ForStudent rebuilds the month-by-month fee history from admission up to
// one month past the latest generated fee. Months nothing was generated for
// appear as not_generated placeholders, so gaps are visible instead of
// silently skipped.
func (s *Service) ForStudent(ctx context.Context, studentID snowflake.ID) ([]timelinedomain.Entry, error) {
	admittedAt, err := s.loadAdmissionDate(ctx, studentID)
	if err != nil {
		return nil, err
	}

	fees, err := s.loadFees(ctx, studentID)
	if err != nil {
		return nil, err
	}

	paid, payments, err := s.loadPayments(ctx, fees)
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[period]*feedomain.MonthlyFee, len(fees))
	for i := range fees {
		fee := &fees[i]
		byPeriod[period{fee.Year, fee.Month}] = fee
	}

	start := period{admittedAt.Year(), int(admittedAt.Month())}
	end := start
	if len(fees) > 0 {
		last := period{fees[len(fees)-1].Year, fees[len(fees)-1].Month}
		if start.before(last) {
			end = last
		}
		end = end.next()
	}

	var entries []timelinedomain.Entry
	for p := start; !end.before(p); p = p.next() {
		fee, ok := byPeriod[p]
		if !ok {
			entries = append(entries, timelinedomain.Entry{
				Month:  p.month,
				Year:   p.year,
				Label:  p.label(),
				Status: timelinedomain.EntryNotGenerated,
			})
			continue
		}

		totalPaid := paid[fee.ID]
		due := fee.PayableAmount - totalPaid
		feeID := fee.ID

		items := make([]timelinedomain.EntryItem, 0, len(fee.Items))
		for _, item := range fee.Items {
			items = append(items, timelinedomain.EntryItem{
				FeeType: string(item.FeeType),
				Amount:  item.Amount,
			})
		}

		entries = append(entries, timelinedomain.Entry{
			Month:         p.month,
			Year:          p.year,
			Label:         p.label(),
			Status:        strings.ToLower(string(fee.Status)),
			FeeID:         &feeID,
			TotalAmount:   &fee.TotalAmount,
			Discount:      &fee.Discount,
			PayableAmount: &fee.PayableAmount,
			TotalPaid:     &totalPaid,
			Due:           &due,
			Items:         items,
			Payments:      payments[fee.ID],
		})
	}

	return entries, nil
}

type period struct {
	year  int
	month int
}

func (p period) before(other period) bool {
	if p.year != other.year {
		return p.year < other.year
	}
	return p.month < other.month
}

func (p period) next() period {
	if p.month == 12 {
		return period{p.year + 1, 1}
	}
	return period{p.year, p.month + 1}
}

func (p period) label() string {
	return fmt.Sprintf("%s %d", time.Month(p.month), p.year)
}

func (s *Service) loadAdmissionDate(ctx context.Context, studentID snowflake.ID) (time.Time, error) {
	var row struct {
		ID        snowflake.ID
		CreatedAt time.Time
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, created_at
		 FROM students
		 WHERE id = ? AND deleted_at IS NULL`,
		studentID,
	).Scan(&row).Error
	if err != nil {
		return time.Time{}, err
	}
	if row.ID == 0 {
		return time.Time{}, timelinedomain.ErrStudentNotFound
	}
	return row.CreatedAt, nil
}

// loadFees returns the student's fees oldest first, line items attached.
func (s *Service) loadFees(ctx context.Context, studentID snowflake.ID) ([]feedomain.MonthlyFee, error) {
	var fees []feedomain.MonthlyFee
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("student_id = ?", studentID).
		Order("year ASC, month ASC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

// loadPayments bulk-loads every payment for the given fees in one query,
// joined with the collecting user's display name.
func (s *Service) loadPayments(ctx context.Context, fees []feedomain.MonthlyFee) (map[snowflake.ID]int64, map[snowflake.ID][]timelinedomain.EntryPayment, error) {
	paid := make(map[snowflake.ID]int64, len(fees))
	grouped := make(map[snowflake.ID][]timelinedomain.EntryPayment, len(fees))
	if len(fees) == 0 {
		return paid, grouped, nil
	}

	feeIDs := make([]snowflake.ID, 0, len(fees))
	for _, fee := range fees {
		feeIDs = append(feeIDs, fee.ID)
	}

	var rows []struct {
		ID              snowflake.ID
		FeeID           snowflake.ID
		Amount          int64
		Mode            string
		ReferenceNumber *string
		PaymentDate     time.Time
		ReceivedByName  string
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT p.id, p.fee_id, p.amount, p.mode, p.reference_number, p.payment_date,
		        COALESCE(u.display_name, '') AS received_by_name
		 FROM payments p
		 LEFT JOIN users u ON u.id = p.received_by
		 WHERE p.fee_id IN ?
		 ORDER BY p.payment_date ASC, p.id ASC`,
		feeIDs,
	).Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	for _, row := range rows {
		paid[row.FeeID] += row.Amount
		grouped[row.FeeID] = append(grouped[row.FeeID], timelinedomain.EntryPayment{
			ID:              row.ID,
			Amount:          row.Amount,
			Mode:            row.Mode,
			ReferenceNumber: row.ReferenceNumber,
			PaymentDate:     row.PaymentDate,
			ReceivedByName:  row.ReceivedByName,
		})
	}
	return paid, grouped, nil
}
