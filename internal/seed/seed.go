package seed

import (
	"context"
	"errors"
	"time"

	schooldomain "github.com/ADILZAMAL/al-sufiaan-school/internal/school/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const (
	defaultSchoolName   = "Al Sufiaan School"
	defaultAdminEmail   = "admin@alsufiaan.local"
	defaultAdminDisplay = "School Admin"
)

var defaultClassNames = []string{
	"Nursery", "LKG", "UKG",
	"Class I", "Class II", "Class III", "Class IV", "Class V",
	"Class VI", "Class VII", "Class VIII", "Class IX", "Class X",
}

// EnsureDefaultSchool seeds the school, its class list, and an admin user so
// a fresh install is usable without any manual setup. Safe to run on every
// startup.
func EnsureDefaultSchool(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := ensureSchoolTx(ctx, tx, node)
		if err != nil {
			return err
		}
		if err := ensureClassesTx(ctx, tx, node, school.ID); err != nil {
			return err
		}
		return ensureAdminUserTx(ctx, tx, node, school.ID)
	})
}

func ensureSchoolTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (*schooldomain.School, error) {
	var school schooldomain.School
	err := tx.WithContext(ctx).Where("name = ?", defaultSchoolName).First(&school).Error
	if err == nil {
		return &school, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	school = schooldomain.School{
		ID:        node.Generate(),
		Name:      defaultSchoolName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&school).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func ensureClassesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, schoolID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&schooldomain.Class{}).
		Where("school_id = ?", schoolID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, name := range defaultClassNames {
		class := schooldomain.Class{
			ID:        node.Generate(),
			SchoolID:  schoolID,
			Name:      name,
			CreatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&class).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, schoolID snowflake.ID) error {
	var user schooldomain.User
	err := tx.WithContext(ctx).Where("email = ?", defaultAdminEmail).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user = schooldomain.User{
		ID:          node.Generate(),
		SchoolID:    schoolID,
		DisplayName: defaultAdminDisplay,
		Email:       defaultAdminEmail,
		CreatedAt:   time.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&user).Error
}
