package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AuditLog records who did what to which record. Metadata carries the
// action-specific payload as free-form JSON.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	SchoolID   *snowflake.ID     `gorm:"index" json:"school_id,omitempty"`
	ActorID    *snowflake.ID     `gorm:"index" json:"actor_id,omitempty"`
	Action     string            `gorm:"size:64;index" json:"action"`
	TargetType string            `gorm:"size:64" json:"target_type"`
	TargetID   *string           `gorm:"size:64" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type ListRequest struct {
	SchoolID   *snowflake.ID
	Action     string
	TargetType string
	Limit      int
}

type Service interface {
	Append(ctx context.Context, schoolID, actorID *snowflake.ID, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, req ListRequest) ([]AuditLog, error)
}
