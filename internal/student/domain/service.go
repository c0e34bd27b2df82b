package domain

import (
	"context"
	"errors"

	"github.com/ADILZAMAL/al-sufiaan-school/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	SchoolID        string `json:"school_id"`
	ClassID         string `json:"class_id"`
	Name            string `json:"name"`
	GuardianName    string `json:"guardian_name"`
	Phone           string `json:"phone"`
	Hostel          bool   `json:"hostel"`
	TransportAreaID string `json:"transport_area_id"`
}

type ListRequest struct {
	SchoolID  string
	ClassID   string
	Name      string
	PageToken string
	PageSize  int
}

type ListResponse struct {
	Students []Student           `json:"students"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Student, error)
	Get(ctx context.Context, id snowflake.ID) (*Student, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrNotFound                 = errors.New("student_not_found")
	ErrInvalidSchool            = errors.New("invalid_school")
	ErrInvalidClass             = errors.New("invalid_class")
	ErrInvalidName              = errors.New("invalid_name")
	ErrInvalidTransportArea     = errors.New("invalid_transport_area")
	ErrHostelTransportExclusive = errors.New("hostel_transport_exclusive")
)
