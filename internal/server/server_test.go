package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/config"
	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	feeservice "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/service"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/metrics"
	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	paymentservice "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/service"
	pricingdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/domain"
	pricingrepo "github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/repository"
	pricingsvc "github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/service"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/providers/pdf"
	schooldomain "github.com/ADILZAMAL/al-sufiaan-school/internal/school/domain"
	studentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	timelineservice "github.com/ADILZAMAL/al-sufiaan-school/internal/timeline/service"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serverFixture struct {
	engine    *gin.Engine
	db        *gorm.DB
	node      *snowflake.Node
	schoolID  snowflake.ID
	classID   snowflake.ID
	studentID snowflake.ID
	actorID   snowflake.ID
}

func newServerFixture(t *testing.T, nodeID int64) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:srvdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&schooldomain.User{},
		&studentdomain.Student{},
		&pricingdomain.ClassPrice{},
		&pricingdomain.TransportPrice{},
		&feedomain.MonthlyFee{},
		&feedomain.FeeLineItem{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(nodeID)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))

	schoolID := node.Generate()
	classID := node.Generate()
	actorID := node.Generate()

	pricing := pricingsvc.NewService(pricingsvc.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  pricingrepo.Provide(),
	})
	_, err = pricing.SetClassPrice(context.Background(), pricingdomain.SetClassPriceRequest{
		SchoolID: schoolID.String(),
		ClassID:  classID.String(),
		Amount:   800_000,
	})
	require.NoError(t, err)

	feeCfg := config.NewStaticFeeConfigHolder(config.FeeConfig{
		HostelAmount:    300_000,
		AdmissionAmount: 500_000,
	})
	calculator := feeservice.NewCalculator(feeservice.CalculatorParams{
		Resolver: pricing,
		FeeCfg:   feeCfg,
	})
	feeSvc := feeservice.NewService(feeservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		Calculator: calculator,
	})
	paymentSvc := paymentservice.NewService(paymentservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
	})
	timelineSvc := timelineservice.NewService(timelineservice.Params{
		DB:  db,
		Log: zap.NewNop(),
	})

	student := studentdomain.Student{
		ID:        node.Generate(),
		SchoolID:  schoolID,
		ClassID:   &classID,
		Name:      "Sana Parveen",
		CreatedAt: fake.Now(),
		UpdatedAt: fake.Now(),
	}
	require.NoError(t, db.Create(&student).Error)

	engine := NewEngine(zap.NewNop(), metrics.New())
	NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{HTTPPort: "0"},
		GenID:       node,
		PricingSvc:  pricing,
		FeeSvc:      feeSvc,
		PaymentSvc:  paymentSvc,
		TimelineSvc: timelineSvc,
		PDFProvider: &pdf.NoOpProvider{},
	})

	return &serverFixture{
		engine:    engine,
		db:        db,
		node:      node,
		schoolID:  schoolID,
		classID:   classID,
		studentID: student.ID,
		actorID:   actorID,
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestGenerateFeeEndpoint(t *testing.T) {
	f := newServerFixture(t, 70)

	body := map[string]any{
		"student_id":     f.studentID.String(),
		"month":          3,
		"year":           2025,
		"acting_user_id": f.actorID.String(),
	}

	rec := f.do(t, http.MethodPost, "/api/v1/fees/generate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Same period again conflicts.
	rec = f.do(t, http.MethodPost, "/api/v1/fees/generate", body)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Error.Type)
}

func TestGenerateFeeEndpointValidation(t *testing.T) {
	f := newServerFixture(t, 71)

	rec := f.do(t, http.MethodPost, "/api/v1/fees/generate", map[string]any{
		"student_id":     f.studentID.String(),
		"month":          13,
		"year":           2025,
		"acting_user_id": f.actorID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "invalid_month", resp.Error.Errors[0].Code)
	assert.Equal(t, "month", resp.Error.Errors[0].Field)
}

func TestGenerateFeeEndpointHostelTransportConflict(t *testing.T) {
	f := newServerFixture(t, 76)

	rec := f.do(t, http.MethodPost, "/api/v1/fees/generate", map[string]any{
		"student_id":        f.studentID.String(),
		"month":             3,
		"year":              2025,
		"hostel":            true,
		"transport_area_id": f.node.Generate().String(),
		"acting_user_id":    f.actorID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "hostel_transport_exclusive", resp.Error.Errors[0].Code)
	assert.Equal(t, "transport_area_id", resp.Error.Errors[0].Field)
}

func TestGenerateFeeEndpointDiscountExceedsSubtotal(t *testing.T) {
	f := newServerFixture(t, 77)

	rec := f.do(t, http.MethodPost, "/api/v1/fees/generate", map[string]any{
		"student_id":     f.studentID.String(),
		"month":          3,
		"year":           2025,
		"discount":       900_000,
		"acting_user_id": f.actorID.String(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error.Type)
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "discount_exceeds_subtotal", resp.Error.Errors[0].Code)
	assert.Equal(t, "discount", resp.Error.Errors[0].Field)
}

func TestGenerateFeeEndpointUnknownStudent(t *testing.T) {
	f := newServerFixture(t, 78)

	rec := f.do(t, http.MethodPost, "/api/v1/fees/generate", map[string]any{
		"student_id":     f.node.Generate().String(),
		"month":          3,
		"year":           2025,
		"acting_user_id": f.actorID.String(),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error.Type)
}

func TestCollectPaymentEndpointOverpayment(t *testing.T) {
	f := newServerFixture(t, 72)

	rec := f.do(t, http.MethodPost, "/api/v1/fees/generate", map[string]any{
		"student_id":     f.studentID.String(),
		"month":          3,
		"year":           2025,
		"acting_user_id": f.actorID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var generated struct {
		Data struct {
			ID snowflake.ID `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))

	collect := map[string]any{
		"fee_id":         generated.Data.ID.String(),
		"student_id":     f.studentID.String(),
		"amount":         800_000,
		"mode":           "CASH",
		"acting_user_id": f.actorID.String(),
	}
	rec = f.do(t, http.MethodPost, "/api/v1/payments/collect", collect)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Fee is settled; any further amount bounces as a business rule error.
	collect["amount"] = 1
	rec = f.do(t, http.MethodPost, "/api/v1/payments/collect", collect)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "business_rule_violation", resp.Error.Type)
	assert.Equal(t, "amount exceeds due amount of 0", resp.Error.Message)
}

func TestTimelineEndpoint(t *testing.T) {
	f := newServerFixture(t, 73)

	rec := f.do(t, http.MethodPost, "/api/v1/fees/generate", map[string]any{
		"student_id":     f.studentID.String(),
		"month":          4,
		"year":           2025,
		"acting_user_id": f.actorID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/students/"+f.studentID.String()+"/fee-timeline", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []struct {
			Label  string `json:"label"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// March (admission) through May.
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "March 2025", resp.Data[0].Label)
	assert.Equal(t, "not_generated", resp.Data[0].Status)
	assert.Equal(t, "unpaid", resp.Data[1].Status)
}

func TestTimelineEndpointUnknownStudent(t *testing.T) {
	f := newServerFixture(t, 74)

	rec := f.do(t, http.MethodGet, "/api/v1/students/"+f.node.Generate().String()+"/fee-timeline", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}
