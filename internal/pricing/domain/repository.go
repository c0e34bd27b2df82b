package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	UpsertClassPrice(ctx context.Context, db *gorm.DB, price *ClassPrice) error
	UpsertTransportPrice(ctx context.Context, db *gorm.DB, price *TransportPrice) error
	FindClassPrice(ctx context.Context, db *gorm.DB, classID snowflake.ID) (*ClassPrice, error)
	FindTransportPrice(ctx context.Context, db *gorm.DB, areaID snowflake.ID) (*TransportPrice, error)
	ListClassPrices(ctx context.Context, db *gorm.DB, schoolID snowflake.ID) ([]ClassPrice, error)
	ListTransportPrices(ctx context.Context, db *gorm.DB, schoolID snowflake.ID) ([]TransportPrice, error)
}
