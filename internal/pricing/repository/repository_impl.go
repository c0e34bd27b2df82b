package repository

import (
	"context"

	"github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertClassPrice(ctx context.Context, db *gorm.DB, price *domain.ClassPrice) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "class_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).
		Create(price).Error
}

func (r *repo) UpsertTransportPrice(ctx context.Context, db *gorm.DB, price *domain.TransportPrice) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "area_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).
		Create(price).Error
}

func (r *repo) FindClassPrice(ctx context.Context, db *gorm.DB, classID snowflake.ID) (*domain.ClassPrice, error) {
	var price domain.ClassPrice
	err := db.WithContext(ctx).
		Where("class_id = ?", classID).
		First(&price).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *repo) FindTransportPrice(ctx context.Context, db *gorm.DB, areaID snowflake.ID) (*domain.TransportPrice, error) {
	var price domain.TransportPrice
	err := db.WithContext(ctx).
		Where("area_id = ?", areaID).
		First(&price).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *repo) ListClassPrices(ctx context.Context, db *gorm.DB, schoolID snowflake.ID) ([]domain.ClassPrice, error) {
	var prices []domain.ClassPrice
	err := db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("created_at ASC").
		Find(&prices).Error
	return prices, err
}

func (r *repo) ListTransportPrices(ctx context.Context, db *gorm.DB, schoolID snowflake.ID) ([]domain.TransportPrice, error) {
	var prices []domain.TransportPrice
	err := db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("created_at ASC").
		Find(&prices).Error
	return prices, err
}
