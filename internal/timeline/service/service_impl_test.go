package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	schooldomain "github.com/ADILZAMAL/al-sufiaan-school/internal/school/domain"
	studentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	timelinedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/timeline/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type timelineFixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	svc       timelinedomain.Service
	schoolID  snowflake.ID
	studentID snowflake.ID
	actorID   snowflake.ID
}

func newTimelineFixture(t *testing.T, nodeID int64, admittedAt time.Time) *timelineFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:tldb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&schooldomain.User{},
		&studentdomain.Student{},
		&feedomain.MonthlyFee{},
		&feedomain.FeeLineItem{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(nodeID)
	require.NoError(t, err)

	schoolID := node.Generate()
	studentID := node.Generate()
	actorID := node.Generate()

	require.NoError(t, db.Create(&studentdomain.Student{
		ID:        studentID,
		SchoolID:  schoolID,
		Name:      "Imran Qureshi",
		CreatedAt: admittedAt,
		UpdatedAt: admittedAt,
	}).Error)
	require.NoError(t, db.Create(&schooldomain.User{
		ID:          actorID,
		SchoolID:    schoolID,
		DisplayName: "Accounts Desk",
		Email:       "accounts@example.com",
		CreatedAt:   admittedAt,
	}).Error)

	svc := NewService(Params{DB: db, Log: zap.NewNop()})

	return &timelineFixture{
		db:        db,
		node:      node,
		svc:       svc,
		schoolID:  schoolID,
		studentID: studentID,
		actorID:   actorID,
	}
}

func (f *timelineFixture) seedFee(t *testing.T, month, year int, payable int64, status feedomain.PaymentStatus) snowflake.ID {
	t.Helper()

	now := time.Date(year, time.Month(month), 5, 10, 0, 0, 0, time.UTC)
	fee := feedomain.MonthlyFee{
		ID:            f.node.Generate(),
		SchoolID:      f.schoolID,
		StudentID:     f.studentID,
		Month:         month,
		Year:          year,
		TotalAmount:   payable,
		PayableAmount: payable,
		Status:        status,
		GeneratedBy:   f.actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.db.Create(&fee).Error)
	require.NoError(t, f.db.Create(&feedomain.FeeLineItem{
		ID:        f.node.Generate(),
		FeeID:     fee.ID,
		FeeType:   feedomain.FeeTypeTuition,
		Amount:    payable,
		CreatedAt: now,
	}).Error)
	return fee.ID
}

func (f *timelineFixture) seedPayment(t *testing.T, feeID snowflake.ID, amount int64, when time.Time) {
	t.Helper()

	require.NoError(t, f.db.Create(&paymentdomain.Payment{
		ID:          f.node.Generate(),
		SchoolID:    f.schoolID,
		FeeID:       feeID,
		StudentID:   f.studentID,
		Amount:      amount,
		Mode:        paymentdomain.ModeCash,
		ReceivedBy:  f.actorID,
		PaymentDate: when,
		CreatedAt:   when,
	}).Error)
}

func TestTimelineCoversAdmissionThroughNextMonth(t *testing.T) {
	f := newTimelineFixture(t, 60, time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC))

	marchID := f.seedFee(t, 3, 2025, 800_000, feedomain.StatusPartial)
	f.seedFee(t, 5, 2025, 800_000, feedomain.StatusUnpaid)
	f.seedPayment(t, marchID, 300_000, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC))

	entries, err := f.svc.ForStudent(context.Background(), f.studentID)
	require.NoError(t, err)

	// February (admission) through June (one past the last generated fee).
	require.Len(t, entries, 5)

	assert.Equal(t, "February 2025", entries[0].Label)
	assert.Equal(t, timelinedomain.EntryNotGenerated, entries[0].Status)
	assert.Nil(t, entries[0].FeeID)
	assert.Nil(t, entries[0].PayableAmount)

	march := entries[1]
	assert.Equal(t, "March 2025", march.Label)
	assert.Equal(t, "partial", march.Status)
	require.NotNil(t, march.TotalPaid)
	assert.Equal(t, int64(300_000), *march.TotalPaid)
	require.NotNil(t, march.Due)
	assert.Equal(t, int64(500_000), *march.Due)
	require.Len(t, march.Payments, 1)
	assert.Equal(t, "Accounts Desk", march.Payments[0].ReceivedByName)
	require.Len(t, march.Items, 1)
	assert.Equal(t, "TUITION", march.Items[0].FeeType)

	assert.Equal(t, "April 2025", entries[2].Label)
	assert.Equal(t, timelinedomain.EntryNotGenerated, entries[2].Status)

	assert.Equal(t, "May 2025", entries[3].Label)
	assert.Equal(t, "unpaid", entries[3].Status)

	assert.Equal(t, "June 2025", entries[4].Label)
	assert.Equal(t, timelinedomain.EntryNotGenerated, entries[4].Status)
}

func TestTimelineWrapsYearBoundary(t *testing.T) {
	f := newTimelineFixture(t, 61, time.Date(2024, time.November, 3, 0, 0, 0, 0, time.UTC))

	f.seedFee(t, 12, 2024, 800_000, feedomain.StatusPaid)

	entries, err := f.svc.ForStudent(context.Background(), f.studentID)
	require.NoError(t, err)

	// November, December, January.
	require.Len(t, entries, 3)
	assert.Equal(t, "November 2024", entries[0].Label)
	assert.Equal(t, "December 2024", entries[1].Label)
	assert.Equal(t, "paid", entries[1].Status)
	assert.Equal(t, "January 2025", entries[2].Label)
	assert.Equal(t, 1, entries[2].Month)
	assert.Equal(t, 2025, entries[2].Year)
}

func TestTimelineWithNoFeesShowsAdmissionMonthOnly(t *testing.T) {
	f := newTimelineFixture(t, 62, time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC))

	entries, err := f.svc.ForStudent(context.Background(), f.studentID)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "July 2025", entries[0].Label)
	assert.Equal(t, timelinedomain.EntryNotGenerated, entries[0].Status)
}

func TestTimelineUnknownStudent(t *testing.T) {
	f := newTimelineFixture(t, 63, time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC))

	_, err := f.svc.ForStudent(context.Background(), f.node.Generate())
	assert.ErrorIs(t, err, timelinedomain.ErrStudentNotFound)
}
