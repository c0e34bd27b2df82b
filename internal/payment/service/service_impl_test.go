package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	schooldomain "github.com/ADILZAMAL/al-sufiaan-school/internal/school/domain"
	studentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupPaymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:paydb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// One connection so concurrent transactions queue instead of tripping
	// sqlite's shared-cache locking.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	require.NoError(t, db.AutoMigrate(
		&schooldomain.School{},
		&schooldomain.Class{},
		&schooldomain.User{},
		&studentdomain.Student{},
		&feedomain.MonthlyFee{},
		&feedomain.FeeLineItem{},
		&paymentdomain.Payment{},
	))

	return db
}

type paymentFixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	svc       paymentdomain.Service
	schoolID  snowflake.ID
	studentID snowflake.ID
	actorID   snowflake.ID
}

func newPaymentFixture(t *testing.T, nodeID int64) *paymentFixture {
	t.Helper()

	db := setupPaymentTestDB(t)
	node, err := snowflake.NewNode(nodeID)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, time.March, 15, 11, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
	})

	schoolID := node.Generate()
	studentID := node.Generate()
	actorID := node.Generate()

	require.NoError(t, db.Create(&studentdomain.Student{
		ID:        studentID,
		SchoolID:  schoolID,
		Name:      "Rehan Sheikh",
		CreatedAt: fake.Now(),
		UpdatedAt: fake.Now(),
	}).Error)

	return &paymentFixture{
		db:        db,
		node:      node,
		clock:     fake,
		svc:       svc,
		schoolID:  schoolID,
		studentID: studentID,
		actorID:   actorID,
	}
}

func (f *paymentFixture) seedFee(t *testing.T, payable int64) snowflake.ID {
	t.Helper()

	fee := feedomain.MonthlyFee{
		ID:            f.node.Generate(),
		SchoolID:      f.schoolID,
		StudentID:     f.studentID,
		Month:         3,
		Year:          2025,
		TotalAmount:   payable,
		PayableAmount: payable,
		Status:        feedomain.StatusFor(0, payable),
		GeneratedBy:   f.actorID,
		CreatedAt:     f.clock.Now(),
		UpdatedAt:     f.clock.Now(),
	}
	require.NoError(t, f.db.Create(&fee).Error)
	return fee.ID
}

func (f *paymentFixture) feeStatus(t *testing.T, feeID snowflake.ID) feedomain.PaymentStatus {
	t.Helper()

	var status feedomain.PaymentStatus
	require.NoError(t, f.db.Raw("SELECT status FROM monthly_fees WHERE id = ?", feeID).Scan(&status).Error)
	return status
}

func TestCollectPartialPayment(t *testing.T) {
	f := newPaymentFixture(t, 40)
	feeID := f.seedFee(t, 800_000)

	payment, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       300_000,
		Mode:         "cash",
		ActingUserID: f.actorID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(300_000), payment.Amount)
	assert.Equal(t, paymentdomain.ModeCash, payment.Mode)
	assert.Equal(t, feedomain.StatusPartial, f.feeStatus(t, feeID))
}

func TestCollectFullPaymentMarksPaidAndBlocksFurther(t *testing.T) {
	f := newPaymentFixture(t, 41)
	feeID := f.seedFee(t, 800_000)

	_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       800_000,
		Mode:         "UPI",
		ActingUserID: f.actorID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, feedomain.StatusPaid, f.feeStatus(t, feeID))

	_, err = f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       1,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, paymentdomain.ErrExceedsDue)
	assert.EqualError(t, err, "amount exceeds due amount of 0")
}

func TestCollectOverpaymentRejectedWithRemainingDue(t *testing.T) {
	f := newPaymentFixture(t, 42)
	feeID := f.seedFee(t, 800_000)

	_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       300_000,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	})
	require.NoError(t, err)

	_, err = f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       600_000,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, paymentdomain.ErrExceedsDue)
	assert.EqualError(t, err, "amount exceeds due amount of 500000")

	// Rejected payment leaves no trace.
	var count int64
	require.NoError(t, f.db.Raw("SELECT COUNT(1) FROM payments WHERE fee_id = ?", feeID).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, feedomain.StatusPartial, f.feeStatus(t, feeID))
}

func TestCollectSeveralPartialsReachExactlyPaid(t *testing.T) {
	f := newPaymentFixture(t, 43)
	feeID := f.seedFee(t, 900_000)

	for _, amount := range []int64{300_000, 300_000, 300_000} {
		_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
			FeeID:        feeID.String(),
			StudentID:    f.studentID.String(),
			Amount:       amount,
			Mode:         "CASH",
			ActingUserID: f.actorID.String(),
		})
		require.NoError(t, err)
	}

	assert.Equal(t, feedomain.StatusPaid, f.feeStatus(t, feeID))

	payments, err := f.svc.ListByFee(context.Background(), feeID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
}

func TestCollectZeroPayableFeeAcceptsNothing(t *testing.T) {
	f := newPaymentFixture(t, 44)
	feeID := f.seedFee(t, 0)

	_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       1,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrExceedsDue)
}

func TestCollectValidation(t *testing.T) {
	f := newPaymentFixture(t, 45)
	feeID := f.seedFee(t, 800_000)

	base := paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       100_000,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	}

	cases := []struct {
		name    string
		mutate  func(*paymentdomain.CollectRequest)
		wantErr error
	}{
		{"bad fee id", func(r *paymentdomain.CollectRequest) { r.FeeID = "nope" }, paymentdomain.ErrInvalidFee},
		{"bad student id", func(r *paymentdomain.CollectRequest) { r.StudentID = "" }, paymentdomain.ErrInvalidStudent},
		{"zero amount", func(r *paymentdomain.CollectRequest) { r.Amount = 0 }, paymentdomain.ErrInvalidAmount},
		{"negative amount", func(r *paymentdomain.CollectRequest) { r.Amount = -5 }, paymentdomain.ErrInvalidAmount},
		{"unknown mode", func(r *paymentdomain.CollectRequest) { r.Mode = "BARTER" }, paymentdomain.ErrInvalidMode},
		{"missing acting user", func(r *paymentdomain.CollectRequest) { r.ActingUserID = "" }, paymentdomain.ErrInvalidActingUser},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := f.svc.Collect(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCollectWrongStudentRejected(t *testing.T) {
	f := newPaymentFixture(t, 46)
	feeID := f.seedFee(t, 800_000)

	_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.node.Generate().String(),
		Amount:       100_000,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrFeeStudentMismatch)
}

func TestCollectUnknownFeeRejected(t *testing.T) {
	f := newPaymentFixture(t, 47)

	_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        f.node.Generate().String(),
		StudentID:    f.studentID.String(),
		Amount:       100_000,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	})
	assert.ErrorIs(t, err, paymentdomain.ErrFeeNotFound)
}

func TestReceiptDenormalizesNames(t *testing.T) {
	f := newPaymentFixture(t, 48)

	classID := f.node.Generate()
	require.NoError(t, f.db.Create(&schooldomain.School{ID: f.schoolID, Name: "Al Noor Public School", CreatedAt: f.clock.Now(), UpdatedAt: f.clock.Now()}).Error)
	require.NoError(t, f.db.Create(&schooldomain.Class{ID: classID, SchoolID: f.schoolID, Name: "Class V", CreatedAt: f.clock.Now()}).Error)
	require.NoError(t, f.db.Create(&schooldomain.User{ID: f.actorID, SchoolID: f.schoolID, DisplayName: "Front Office", Email: "office@example.com", CreatedAt: f.clock.Now()}).Error)
	require.NoError(t, f.db.Model(&studentdomain.Student{}).Where("id = ?", f.studentID).Update("class_id", classID).Error)

	feeID := f.seedFee(t, 800_000)
	payment, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
		FeeID:        feeID.String(),
		StudentID:    f.studentID.String(),
		Amount:       300_000,
		Mode:         "CASH",
		ActingUserID: f.actorID.String(),
	})
	require.NoError(t, err)

	receipt, err := f.svc.Receipt(context.Background(), payment.ID)
	require.NoError(t, err)

	assert.Equal(t, "Al Noor Public School", receipt.SchoolName)
	assert.Equal(t, "Rehan Sheikh", receipt.StudentName)
	assert.Equal(t, "Class V", receipt.ClassName)
	assert.Equal(t, "Front Office", receipt.ReceivedBy)
	assert.Equal(t, 3, receipt.Month)
	assert.Equal(t, 2025, receipt.Year)
	assert.Equal(t, int64(300_000), receipt.TotalPaid)
	assert.Equal(t, int64(500_000), receipt.Due)

	_, err = f.svc.Receipt(context.Background(), f.node.Generate())
	assert.ErrorIs(t, err, paymentdomain.ErrNotFound)
}

func TestCollectConcurrentPaymentsNeverExceedPayable(t *testing.T) {
	f := newPaymentFixture(t, 49)
	feeID := f.seedFee(t, 800_000)

	// Two tellers race to collect 600_000 each against an 800_000 fee.
	// Whichever commits second must see the first payment and be refused.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
				FeeID:        feeID.String(),
				StudentID:    f.studentID.String(),
				Amount:       600_000,
				Mode:         "CASH",
				ActingUserID: f.actorID.String(),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, refused int
	for err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.True(t, errors.Is(err, paymentdomain.ErrExceedsDue), "unexpected error: %v", err)
		refused++
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, refused)

	var total int64
	require.NoError(t, f.db.Raw("SELECT COALESCE(SUM(amount), 0) FROM payments WHERE fee_id = ?", feeID).Scan(&total).Error)
	assert.Equal(t, int64(600_000), total)
	assert.Equal(t, feedomain.StatusPartial, f.feeStatus(t, feeID))
}

func TestCollectConcurrentPartialsSettleExactly(t *testing.T) {
	f := newPaymentFixture(t, 50)
	feeID := f.seedFee(t, 800_000)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Collect(context.Background(), paymentdomain.CollectRequest{
				FeeID:        feeID.String(),
				StudentID:    f.studentID.String(),
				Amount:       400_000,
				Mode:         "UPI",
				ActingUserID: f.actorID.String(),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var total int64
	require.NoError(t, f.db.Raw("SELECT COALESCE(SUM(amount), 0) FROM payments WHERE fee_id = ?", feeID).Scan(&total).Error)
	assert.Equal(t, int64(800_000), total)
	assert.Equal(t, feedomain.StatusPaid, f.feeStatus(t, feeID))
}
