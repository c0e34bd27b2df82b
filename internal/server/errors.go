package server

import (
	"errors"
	"net/http"
	"strings"

	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	pricingdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/domain"
	studentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	timelinedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/timeline/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, feedomain.ErrAlreadyGenerated):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isBusinessRuleError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "business_rule_violation",
			Message: err.Error(),
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isStudentValidationError(err),
		isPricingValidationError(err),
		isFeeValidationError(err),
		isPaymentValidationError(err):
		return true
	default:
		return false
	}
}

// Business rule errors are well-formed requests the ledger refuses: the
// request parses fine but the books say no.
func isBusinessRuleError(err error) bool {
	switch {
	case errors.Is(err, paymentdomain.ErrExceedsDue),
		errors.Is(err, paymentdomain.ErrFeeStudentMismatch),
		errors.Is(err, feedomain.ErrNoFeeItems):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, studentdomain.ErrNotFound),
		errors.Is(err, feedomain.ErrNotFound),
		errors.Is(err, feedomain.ErrStudentNotFound),
		errors.Is(err, feedomain.ErrStudentHasNoClass),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrFeeNotFound),
		errors.Is(err, timelinedomain.ErrStudentNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isStudentValidationError(err error) bool {
	switch err {
	case studentdomain.ErrInvalidSchool,
		studentdomain.ErrInvalidClass,
		studentdomain.ErrInvalidName,
		studentdomain.ErrInvalidTransportArea,
		studentdomain.ErrHostelTransportExclusive:
		return true
	default:
		return false
	}
}

func isPricingValidationError(err error) bool {
	switch err {
	case pricingdomain.ErrInvalidSchool,
		pricingdomain.ErrInvalidClass,
		pricingdomain.ErrInvalidArea,
		pricingdomain.ErrInvalidAmount:
		return true
	default:
		return false
	}
}

func isFeeValidationError(err error) bool {
	switch err {
	case feedomain.ErrInvalidStudent,
		feedomain.ErrInvalidMonth,
		feedomain.ErrInvalidYear,
		feedomain.ErrInvalidDiscount,
		feedomain.ErrInvalidTransportArea,
		feedomain.ErrInvalidActingUser,
		feedomain.ErrHostelTransportExclusive,
		feedomain.ErrDiscountExceedsSubtotal:
		return true
	default:
		return false
	}
}

func isPaymentValidationError(err error) bool {
	switch err {
	case paymentdomain.ErrInvalidFee,
		paymentdomain.ErrInvalidStudent,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidMode,
		paymentdomain.ErrInvalidActingUser:
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case "hostel_transport_exclusive":
		return "transport_area_id"
	case "discount_exceeds_subtotal":
		return "discount"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "hostel_transport_exclusive":
		return "hostel and transport are mutually exclusive"
	case "discount_exceeds_subtotal":
		return "discount cannot exceed the fee subtotal"
	default:
		return "invalid value"
	}
}
