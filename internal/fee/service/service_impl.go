package service

import (
	"context"
	"strings"

	auditdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/audit/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/metrics"
	"github.com/ADILZAMAL/al-sufiaan-school/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Calculator *Calculator
	AuditSvc   auditdomain.Service
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	calculator *Calculator
	auditSvc   auditdomain.Service
	metrics    *metrics.Metrics
}

func NewService(p Params) feedomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("fee.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		calculator: p.Calculator,
		auditSvc:   p.AuditSvc,
		metrics:    p.Metrics,
	}
}

func (s *Service) Generate(ctx context.Context, req feedomain.GenerateRequest) (*feedomain.MonthlyFee, error) {
	fee, err := s.generate(ctx, req)
	s.countGenerate(err)
	return fee, err
}

func (s *Service) generate(ctx context.Context, req feedomain.GenerateRequest) (*feedomain.MonthlyFee, error) {
	studentID, err := snowflake.ParseString(strings.TrimSpace(req.StudentID))
	if err != nil || studentID == 0 {
		return nil, feedomain.ErrInvalidStudent
	}
	actingUserID, err := snowflake.ParseString(strings.TrimSpace(req.ActingUserID))
	if err != nil || actingUserID == 0 {
		return nil, feedomain.ErrInvalidActingUser
	}
	if req.Month < 1 || req.Month > 12 {
		return nil, feedomain.ErrInvalidMonth
	}
	if req.Year < 2000 || req.Year > 2100 {
		return nil, feedomain.ErrInvalidYear
	}
	if req.Discount < 0 {
		return nil, feedomain.ErrInvalidDiscount
	}

	var areaID *snowflake.ID
	if raw := strings.TrimSpace(req.TransportAreaID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, feedomain.ErrInvalidTransportArea
		}
		areaID = &id
	}
	if req.Hostel && areaID != nil {
		return nil, feedomain.ErrHostelTransportExclusive
	}

	var created *feedomain.MonthlyFee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		student, err := s.loadStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if student == nil {
			return feedomain.ErrStudentNotFound
		}
		if student.ClassID == 0 {
			return feedomain.ErrStudentHasNoClass
		}

		// Fast-path duplicate check. The unique index on
		// (student_id, month, year) remains the authoritative guard; a
		// concurrent generation that races past this still fails at insert.
		existingID, err := s.findFeeForPeriod(ctx, tx, studentID, req.Month, req.Year)
		if err != nil {
			return err
		}
		if existingID != 0 {
			return feedomain.ErrAlreadyGenerated
		}

		items, err := s.calculator.Calculate(ctx, CalcInput{
			ClassID:         student.ClassID,
			Hostel:          req.Hostel,
			TransportAreaID: areaID,
			NewAdmission:    req.NewAdmission,
		})
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return feedomain.ErrNoFeeItems
		}

		var subtotal int64
		for _, item := range items {
			subtotal += item.Amount
		}
		if req.Discount > subtotal {
			return feedomain.ErrDiscountExceedsSubtotal
		}
		payable := subtotal - req.Discount

		now := s.clock.Now()
		feeID := s.genID.Generate()
		fee := feedomain.MonthlyFee{
			ID:            feeID,
			SchoolID:      student.SchoolID,
			StudentID:     studentID,
			Month:         req.Month,
			Year:          req.Year,
			TotalAmount:   subtotal,
			Discount:      req.Discount,
			PayableAmount: payable,
			Status:        feedomain.StatusFor(0, payable),
			GeneratedBy:   actingUserID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if reason := strings.TrimSpace(req.DiscountReason); reason != "" {
			fee.DiscountReason = &reason
		}

		if err := s.insertFee(ctx, tx, fee); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return feedomain.ErrAlreadyGenerated
			}
			return err
		}

		lineItems := make([]feedomain.FeeLineItem, 0, len(items))
		for _, item := range items {
			lineItem := feedomain.FeeLineItem{
				ID:        s.genID.Generate(),
				FeeID:     feeID,
				FeeType:   item.FeeType,
				Amount:    item.Amount,
				CreatedAt: now,
			}
			if err := s.insertLineItem(ctx, tx, lineItem); err != nil {
				return err
			}
			lineItems = append(lineItems, lineItem)
		}

		fee.Items = lineItems
		created = &fee
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("monthly fee generated",
		zap.String("fee_id", created.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int64("payable", created.PayableAmount),
	)
	s.emitAudit(ctx, created, actingUserID)
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*feedomain.MonthlyFee, error) {
	var fee feedomain.MonthlyFee
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&fee).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, feedomain.ErrNotFound
		}
		return nil, err
	}
	return &fee, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID snowflake.ID) ([]feedomain.MonthlyFee, error) {
	var fees []feedomain.MonthlyFee
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("student_id = ?", studentID).
		Order("year DESC, month DESC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (s *Service) emitAudit(ctx context.Context, fee *feedomain.MonthlyFee, actingUserID snowflake.ID) {
	if s.auditSvc == nil || fee == nil {
		return
	}
	targetID := fee.ID.String()
	schoolID := fee.SchoolID
	_ = s.auditSvc.Append(ctx, &schoolID, &actingUserID, "fee.generated", "monthly_fee", &targetID, map[string]any{
		"student_id":     fee.StudentID.String(),
		"month":          fee.Month,
		"year":           fee.Year,
		"total_amount":   fee.TotalAmount,
		"discount":       fee.Discount,
		"payable_amount": fee.PayableAmount,
	})
}

func (s *Service) countGenerate(err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		s.metrics.FeeGenerated("rejected")
		return
	}
	s.metrics.FeeGenerated("created")
}

type studentRow struct {
	ID       snowflake.ID
	SchoolID snowflake.ID
	ClassID  snowflake.ID
	Hostel   bool
}

func (s *Service) loadStudent(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*studentRow, error) {
	var student studentRow
	err := tx.WithContext(ctx).Raw(
		`SELECT id, school_id, COALESCE(class_id, 0) AS class_id, hostel
		 FROM students
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	).Scan(&student).Error
	if err != nil {
		return nil, err
	}
	if student.ID == 0 {
		return nil, nil
	}
	return &student, nil
}

// findFeeForPeriod matches the unique index on (student_id, month, year),
// which covers soft-deleted rows, so the fast path and the constraint
// always report the same conflict.
func (s *Service) findFeeForPeriod(ctx context.Context, tx *gorm.DB, studentID snowflake.ID, month, year int) (snowflake.ID, error) {
	var feeID snowflake.ID
	err := tx.WithContext(ctx).Raw(
		`SELECT id
		 FROM monthly_fees
		 WHERE student_id = ? AND month = ? AND year = ?
		 LIMIT 1`,
		studentID,
		month,
		year,
	).Scan(&feeID).Error
	if err != nil {
		return 0, err
	}
	return feeID, nil
}

func (s *Service) insertFee(ctx context.Context, tx *gorm.DB, fee feedomain.MonthlyFee) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO monthly_fees (
			id, school_id, student_id, month, year,
			total_amount, discount, payable_amount, status,
			discount_reason, generated_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fee.ID,
		fee.SchoolID,
		fee.StudentID,
		fee.Month,
		fee.Year,
		fee.TotalAmount,
		fee.Discount,
		fee.PayableAmount,
		fee.Status,
		fee.DiscountReason,
		fee.GeneratedBy,
		fee.CreatedAt,
		fee.UpdatedAt,
	).Error
}

func (s *Service) insertLineItem(ctx context.Context, tx *gorm.DB, item feedomain.FeeLineItem) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO fee_line_items (id, fee_id, fee_type, amount, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		item.ID,
		item.FeeID,
		item.FeeType,
		item.Amount,
		item.CreatedAt,
	).Error
}
