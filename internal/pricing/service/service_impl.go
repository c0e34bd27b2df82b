package service

import (
	"context"
	"strings"

	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/domain"
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
		log:   p.Log.Named("pricing.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) ResolveTuition(ctx context.Context, classID snowflake.ID) (*int64, error) {
	price, err := s.repo.FindClassPrice(ctx, s.db, classID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, nil
	}
	amount := price.Amount
	return &amount, nil
}

func (s *Service) ResolveTransport(ctx context.Context, areaID snowflake.ID) (*int64, error) {
	price, err := s.repo.FindTransportPrice(ctx, s.db, areaID)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, nil
	}
	amount := price.Amount
	return &amount, nil
}

func (s *Service) SetClassPrice(ctx context.Context, req domain.SetClassPriceRequest) (*domain.ClassPrice, error) {
	schoolID, err := snowflake.ParseString(strings.TrimSpace(req.SchoolID))
	if err != nil || schoolID == 0 {
		return nil, domain.ErrInvalidSchool
	}
	classID, err := snowflake.ParseString(strings.TrimSpace(req.ClassID))
	if err != nil || classID == 0 {
		return nil, domain.ErrInvalidClass
	}
	if req.Amount < 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	price := &domain.ClassPrice{
		ID:        s.genID.Generate(),
		SchoolID:  schoolID,
		ClassID:   classID,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.UpsertClassPrice(ctx, s.db, price); err != nil {
		return nil, err
	}

	s.log.Info("class price set",
		zap.String("class_id", classID.String()),
		zap.Int64("amount", req.Amount),
	)
	return price, nil
}

func (s *Service) SetTransportPrice(ctx context.Context, req domain.SetTransportPriceRequest) (*domain.TransportPrice, error) {
	schoolID, err := snowflake.ParseString(strings.TrimSpace(req.SchoolID))
	if err != nil || schoolID == 0 {
		return nil, domain.ErrInvalidSchool
	}
	areaID, err := snowflake.ParseString(strings.TrimSpace(req.AreaID))
	if err != nil || areaID == 0 {
		return nil, domain.ErrInvalidArea
	}
	if req.Amount < 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	price := &domain.TransportPrice{
		ID:        s.genID.Generate(),
		SchoolID:  schoolID,
		AreaID:    areaID,
		Amount:    req.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.UpsertTransportPrice(ctx, s.db, price); err != nil {
		return nil, err
	}

	s.log.Info("transport price set",
		zap.String("area_id", areaID.String()),
		zap.Int64("amount", req.Amount),
	)
	return price, nil
}

func (s *Service) List(ctx context.Context, schoolID snowflake.ID) (domain.ListResponse, error) {
	classPrices, err := s.repo.ListClassPrices(ctx, s.db, schoolID)
	if err != nil {
		return domain.ListResponse{}, err
	}
	transportPrices, err := s.repo.ListTransportPrices(ctx, s.db, schoolID)
	if err != nil {
		return domain.ListResponse{}, err
	}
	return domain.ListResponse{
		ClassPrices:     classPrices,
		TransportPrices: transportPrices,
	}, nil
}
