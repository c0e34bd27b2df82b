package server

import (
	"net/http"
	"strings"

	pricingdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type setClassPriceRequest struct {
	SchoolID string `json:"school_id"`
	ClassID  string `json:"class_id"`
	Amount   int64  `json:"amount"`
}

func (s *Server) SetClassPrice(c *gin.Context) {
	var req setClassPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.SetClassPrice(c.Request.Context(), pricingdomain.SetClassPriceRequest{
		SchoolID: strings.TrimSpace(req.SchoolID),
		ClassID:  strings.TrimSpace(req.ClassID),
		Amount:   req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setTransportPriceRequest struct {
	SchoolID string `json:"school_id"`
	AreaID   string `json:"area_id"`
	Amount   int64  `json:"amount"`
}

func (s *Server) SetTransportPrice(c *gin.Context) {
	var req setTransportPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.SetTransportPrice(c.Request.Context(), pricingdomain.SetTransportPriceRequest{
		SchoolID: strings.TrimSpace(req.SchoolID),
		AreaID:   strings.TrimSpace(req.AreaID),
		Amount:   req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPrices(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("school_id"))
	schoolID, err := snowflake.ParseString(raw)
	if err != nil || schoolID == 0 {
		AbortWithError(c, newValidationError("school_id", "invalid_school", "invalid school_id"))
		return
	}

	resp, err := s.pricingSvc.List(c.Request.Context(), schoolID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
