package server

import (
	"net/http"
	"strings"

	auditdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/audit/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListAuditLogs(c *gin.Context) {
	var query struct {
		SchoolID   string `form:"school_id"`
		Action     string `form:"action"`
		TargetType string `form:"target_type"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := auditdomain.ListRequest{
		Action:     strings.TrimSpace(query.Action),
		TargetType: strings.TrimSpace(query.TargetType),
		Limit:      query.Limit,
	}
	if raw := strings.TrimSpace(query.SchoolID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			AbortWithError(c, newValidationError("school_id", "invalid_school", "invalid school_id"))
			return
		}
		req.SchoolID = &id
	}

	logs, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
