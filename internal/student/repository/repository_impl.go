package repository

import (
	"context"
	"time"

	"github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, student *domain.Student) error {
	return db.WithContext(ctx).Create(student).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Student, error) {
	var student domain.Student
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// List returns one page plus one extra row so the service can tell whether
// more pages exist. The cursor orders by (created_at, id) descending.
func (r *repo) List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter domain.ListStudentFilter, page pagination.Pagination) ([]*domain.Student, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Student{}).
		Where("school_id = ?", schoolID)
	if filter.ClassID != nil {
		stmt = stmt.Where("class_id = ?", *filter.ClassID)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, id)
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 25
	}

	var students []*domain.Student
	err := stmt.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}
