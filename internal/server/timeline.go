package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetStudentFeeTimeline(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entries, err := s.timelineSvc.ForStudent(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
