package server

import (
	"io"
	"net/http"
	"strings"

	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

type collectPaymentRequest struct {
	FeeID           string `json:"fee_id"`
	StudentID       string `json:"student_id"`
	Amount          int64  `json:"amount"`
	Mode            string `json:"mode"`
	ReferenceNumber string `json:"reference_number"`
	Remarks         string `json:"remarks"`
	ActingUserID    string `json:"acting_user_id"`
}

func (s *Server) CollectPayment(c *gin.Context) {
	var req collectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Collect(c.Request.Context(), paymentdomain.CollectRequest{
		FeeID:           strings.TrimSpace(req.FeeID),
		StudentID:       strings.TrimSpace(req.StudentID),
		Amount:          req.Amount,
		Mode:            strings.TrimSpace(req.Mode),
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		Remarks:         strings.TrimSpace(req.Remarks),
		ActingUserID:    strings.TrimSpace(req.ActingUserID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := s.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPaymentReceipt(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	receipt, err := s.paymentSvc.Receipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdfProvider.GenerateReceipt(c.Request.Context(), *receipt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+id.String()+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}
