package service

import (
	"context"

	auditdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/audit/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
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
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

// Append writes an audit entry. Failures are logged and swallowed so a
// broken audit sink never rolls back the business operation it trails.
func (s *Service) Append(ctx context.Context, schoolID, actorID *snowflake.ID, action, targetType string, targetID *string, metadata map[string]any) error {
	entry := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		SchoolID:   schoolID,
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("failed to append audit log",
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) ([]auditdomain.AuditLog, error) {
	query := s.db.WithContext(ctx).Model(&auditdomain.AuditLog{})
	if req.SchoolID != nil {
		query = query.Where("school_id = ?", *req.SchoolID)
	}
	if req.Action != "" {
		query = query.Where("action = ?", req.Action)
	}
	if req.TargetType != "" {
		query = query.Where("target_type = ?", req.TargetType)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var logs []auditdomain.AuditLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
