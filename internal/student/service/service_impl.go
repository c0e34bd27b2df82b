package service

import (
	"context"
	"strings"
	"time"

	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("student.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Student, error) {
	schoolID, err := snowflake.ParseString(strings.TrimSpace(req.SchoolID))
	if err != nil || schoolID == 0 {
		return nil, domain.ErrInvalidSchool
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	var classID *snowflake.ID
	if raw := strings.TrimSpace(req.ClassID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidClass
		}
		classID = &id
	}

	var areaID *snowflake.ID
	if raw := strings.TrimSpace(req.TransportAreaID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidTransportArea
		}
		areaID = &id
	}

	// A student cannot board at the hostel and ride a transport route at
	// the same time. The fee generator relies on this holding upstream.
	if req.Hostel && areaID != nil {
		return nil, domain.ErrHostelTransportExclusive
	}

	now := s.clock.Now()
	student := &domain.Student{
		ID:              s.genID.Generate(),
		SchoolID:        schoolID,
		ClassID:         classID,
		Name:            name,
		GuardianName:    strings.TrimSpace(req.GuardianName),
		Phone:           strings.TrimSpace(req.Phone),
		Hostel:          req.Hostel,
		TransportAreaID: areaID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, student); err != nil {
		return nil, err
	}

	s.log.Info("student admitted",
		zap.String("student_id", student.ID.String()),
		zap.String("school_id", schoolID.String()),
	)
	return student, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Student, error) {
	student, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}
	return student, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	schoolID, err := snowflake.ParseString(strings.TrimSpace(req.SchoolID))
	if err != nil || schoolID == 0 {
		return domain.ListResponse{}, domain.ErrInvalidSchool
	}

	filter := domain.ListStudentFilter{Name: strings.TrimSpace(req.Name)}
	if raw := strings.TrimSpace(req.ClassID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListResponse{}, domain.ErrInvalidClass
		}
		filter.ClassID = &id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}

	items, err := s.repo.List(ctx, s.db, schoolID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(student *domain.Student) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        student.ID.String(),
			CreatedAt: student.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	students := make([]domain.Student, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		students = append(students, *item)
	}

	resp := domain.ListResponse{Students: students}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
