package service

import (
	"context"
	"strings"
	"time"

	auditdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/audit/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/metrics"
	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	AuditSvc auditdomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	auditSvc auditdomain.Service
	metrics  *metrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		auditSvc: p.AuditSvc,
		metrics:  p.Metrics,
	}
}

func (s *Service) Collect(ctx context.Context, req paymentdomain.CollectRequest) (*paymentdomain.Payment, error) {
	payment, err := s.collect(ctx, req)
	s.countCollect(err)
	return payment, err
}

func (s *Service) collect(ctx context.Context, req paymentdomain.CollectRequest) (*paymentdomain.Payment, error) {
	feeID, err := snowflake.ParseString(strings.TrimSpace(req.FeeID))
	if err != nil || feeID == 0 {
		return nil, paymentdomain.ErrInvalidFee
	}
	studentID, err := snowflake.ParseString(strings.TrimSpace(req.StudentID))
	if err != nil || studentID == 0 {
		return nil, paymentdomain.ErrInvalidStudent
	}
	actingUserID, err := snowflake.ParseString(strings.TrimSpace(req.ActingUserID))
	if err != nil || actingUserID == 0 {
		return nil, paymentdomain.ErrInvalidActingUser
	}
	if req.Amount <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}
	mode := paymentdomain.PaymentMode(strings.ToUpper(strings.TrimSpace(req.Mode)))
	if !mode.Valid() {
		return nil, paymentdomain.ErrInvalidMode
	}

	var created *paymentdomain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fee, err := s.loadFeeForUpdate(ctx, tx, feeID)
		if err != nil {
			return err
		}
		if fee == nil {
			return paymentdomain.ErrFeeNotFound
		}
		if fee.StudentID != studentID {
			return paymentdomain.ErrFeeStudentMismatch
		}

		paid, err := s.sumPayments(ctx, tx, feeID)
		if err != nil {
			return err
		}

		due := fee.PayableAmount - paid
		if req.Amount > due {
			return &paymentdomain.ExceedsDueError{Due: due}
		}

		now := s.clock.Now()
		payment := paymentdomain.Payment{
			ID:          s.genID.Generate(),
			SchoolID:    fee.SchoolID,
			FeeID:       feeID,
			StudentID:   studentID,
			Amount:      req.Amount,
			Mode:        mode,
			ReceivedBy:  actingUserID,
			PaymentDate: now,
			CreatedAt:   now,
		}
		if ref := strings.TrimSpace(req.ReferenceNumber); ref != "" {
			payment.ReferenceNumber = &ref
		}
		if remarks := strings.TrimSpace(req.Remarks); remarks != "" {
			payment.Remarks = &remarks
		}

		if err := s.insertPayment(ctx, tx, payment); err != nil {
			return err
		}

		status := feedomain.StatusFor(paid+req.Amount, fee.PayableAmount)
		if err := s.updateFeeStatus(ctx, tx, feeID, status, now); err != nil {
			return err
		}

		created = &payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment collected",
		zap.String("payment_id", created.ID.String()),
		zap.String("fee_id", feeID.String()),
		zap.String("student_id", studentID.String()),
		zap.Int64("amount", created.Amount),
		zap.String("mode", string(created.Mode)),
	)
	s.emitAudit(ctx, created, actingUserID)
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, paymentdomain.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (s *Service) ListByFee(ctx context.Context, feeID snowflake.ID) ([]paymentdomain.Payment, error) {
	var payments []paymentdomain.Payment
	err := s.db.WithContext(ctx).
		Where("fee_id = ?", feeID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Receipt denormalizes one payment into everything its printed receipt
// shows. The totals are read at call time, so a receipt reprinted after
// further collections shows the then-current due.
func (s *Service) Receipt(ctx context.Context, paymentID snowflake.ID) (*paymentdomain.ReceiptData, error) {
	payment, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	var fee struct {
		Month         int
		Year          int
		PayableAmount int64
	}
	err = s.db.WithContext(ctx).Raw(
		`SELECT month, year, payable_amount
		 FROM monthly_fees
		 WHERE id = ?`,
		payment.FeeID,
	).Scan(&fee).Error
	if err != nil {
		return nil, err
	}

	paid, err := s.sumPayments(ctx, s.db, payment.FeeID)
	if err != nil {
		return nil, err
	}

	var names struct {
		SchoolName  string
		StudentName string
		ClassName   string
	}
	err = s.db.WithContext(ctx).Raw(
		`SELECT s.name AS student_name,
		        COALESCE(sc.name, '') AS school_name,
		        COALESCE(c.name, '') AS class_name
		 FROM students s
		 LEFT JOIN schools sc ON sc.id = s.school_id
		 LEFT JOIN classes c ON c.id = s.class_id
		 WHERE s.id = ?`,
		payment.StudentID,
	).Scan(&names).Error
	if err != nil {
		return nil, err
	}

	var receivedBy string
	err = s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(display_name, '') FROM users WHERE id = ?`,
		payment.ReceivedBy,
	).Scan(&receivedBy).Error
	if err != nil {
		return nil, err
	}

	return &paymentdomain.ReceiptData{
		Payment:     *payment,
		SchoolName:  names.SchoolName,
		StudentName: names.StudentName,
		ClassName:   names.ClassName,
		Month:       fee.Month,
		Year:        fee.Year,
		Payable:     fee.PayableAmount,
		TotalPaid:   paid,
		Due:         fee.PayableAmount - paid,
		ReceivedBy:  receivedBy,
	}, nil
}

func (s *Service) emitAudit(ctx context.Context, payment *paymentdomain.Payment, actingUserID snowflake.ID) {
	if s.auditSvc == nil || payment == nil {
		return
	}
	targetID := payment.ID.String()
	schoolID := payment.SchoolID
	_ = s.auditSvc.Append(ctx, &schoolID, &actingUserID, "payment.collected", "payment", &targetID, map[string]any{
		"fee_id":     payment.FeeID.String(),
		"student_id": payment.StudentID.String(),
		"amount":     payment.Amount,
		"mode":       string(payment.Mode),
	})
}

func (s *Service) countCollect(err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.PaymentCollected("rejected")
		return
	}
	s.metrics.PaymentCollected("collected")
}

type feeRow struct {
	ID            snowflake.ID
	SchoolID      snowflake.ID
	StudentID     snowflake.ID
	PayableAmount int64
}

func (s *Service) loadFeeForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*feeRow, error) {
	var fee feeRow
	query := `SELECT id, school_id, student_id, payable_amount
		 FROM monthly_fees
		 WHERE id = ? AND deleted_at IS NULL`

	if tx.Dialector.Name() != "sqlite" {
		query += " FOR UPDATE"
	}

	err := tx.WithContext(ctx).Raw(query, id).Scan(&fee).Error
	if err != nil {
		return nil, err
	}
	if fee.ID == 0 {
		return nil, nil
	}
	return &fee, nil
}

func (s *Service) sumPayments(ctx context.Context, tx *gorm.DB, feeID snowflake.ID) (int64, error) {
	var paid int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE fee_id = ?`,
		feeID,
	).Scan(&paid).Error
	if err != nil {
		return 0, err
	}
	return paid, nil
}

func (s *Service) insertPayment(ctx context.Context, tx *gorm.DB, payment paymentdomain.Payment) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO payments (
			id, school_id, fee_id, student_id, amount, mode,
			reference_number, remarks, received_by, payment_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.SchoolID,
		payment.FeeID,
		payment.StudentID,
		payment.Amount,
		payment.Mode,
		payment.ReferenceNumber,
		payment.Remarks,
		payment.ReceivedBy,
		payment.PaymentDate,
		payment.CreatedAt,
	).Error
}

func (s *Service) updateFeeStatus(ctx context.Context, tx *gorm.DB, feeID snowflake.ID, status feedomain.PaymentStatus, now time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE monthly_fees SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		now,
		feeID,
	).Error
}
