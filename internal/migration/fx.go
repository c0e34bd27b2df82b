package migration

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/config"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, conn.Dialector.Name()); err != nil {
			return err
		}

		if cfg.SeedDefaults {
			return seed.EnsureDefaultSchool(conn)
		}
		return nil
	}),
)
