package server

import (
	"net/http"
	"strings"

	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	"github.com/gin-gonic/gin"
)

type generateFeeRequest struct {
	StudentID       string `json:"student_id"`
	Month           int    `json:"month"`
	Year            int    `json:"year"`
	Hostel          bool   `json:"hostel"`
	TransportAreaID string `json:"transport_area_id"`
	Discount        int64  `json:"discount"`
	DiscountReason  string `json:"discount_reason"`
	NewAdmission    bool   `json:"new_admission"`
	ActingUserID    string `json:"acting_user_id"`
}

func (s *Server) GenerateFee(c *gin.Context) {
	var req generateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.feeSvc.Generate(c.Request.Context(), feedomain.GenerateRequest{
		StudentID:       strings.TrimSpace(req.StudentID),
		Month:           req.Month,
		Year:            req.Year,
		Hostel:          req.Hostel,
		TransportAreaID: strings.TrimSpace(req.TransportAreaID),
		Discount:        req.Discount,
		DiscountReason:  strings.TrimSpace(req.DiscountReason),
		NewAdmission:    req.NewAdmission,
		ActingUserID:    strings.TrimSpace(req.ActingUserID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFeeByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fee, err := s.feeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payments, err := s.paymentSvc.ListByFee(c.Request.Context(), fee.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"fee":      fee,
		"payments": payments,
	}})
}

func (s *Server) ListStudentFees(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fees, err := s.feeSvc.ListByStudent(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fees})
}
