package domain

import (
	"context"

	"github.com/ADILZAMAL/al-sufiaan-school/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListStudentFilter struct {
	ClassID *snowflake.ID
	Name    string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, student *Student) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Student, error)
	List(ctx context.Context, db *gorm.DB, schoolID snowflake.ID, filter ListStudentFilter, page pagination.Pagination) ([]*Student, error)
}
