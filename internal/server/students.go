package server

import (
	"net/http"
	"strings"

	studentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type createStudentRequest struct {
	SchoolID        string `json:"school_id"`
	ClassID         string `json:"class_id"`
	Name            string `json:"name"`
	GuardianName    string `json:"guardian_name"`
	Phone           string `json:"phone"`
	Hostel          bool   `json:"hostel"`
	TransportAreaID string `json:"transport_area_id"`
}

func (s *Server) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.Create(c.Request.Context(), studentdomain.CreateRequest{
		SchoolID:        strings.TrimSpace(req.SchoolID),
		ClassID:         strings.TrimSpace(req.ClassID),
		Name:            strings.TrimSpace(req.Name),
		GuardianName:    strings.TrimSpace(req.GuardianName),
		Phone:           strings.TrimSpace(req.Phone),
		Hostel:          req.Hostel,
		TransportAreaID: strings.TrimSpace(req.TransportAreaID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStudentByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := s.studentSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListStudents(c *gin.Context) {
	var query struct {
		SchoolID  string `form:"school_id"`
		ClassID   string `form:"class_id"`
		Name      string `form:"name"`
		PageToken string `form:"page_token"`
		PageSize  int    `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.studentSvc.List(c.Request.Context(), studentdomain.ListRequest{
		SchoolID:  strings.TrimSpace(query.SchoolID),
		ClassID:   strings.TrimSpace(query.ClassID),
		Name:      strings.TrimSpace(query.Name),
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseIDParam(c *gin.Context) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return 0, false
	}
	return id, true
}
