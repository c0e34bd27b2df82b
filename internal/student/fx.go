package student

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/student/repository"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/student/service"
	"go.uber.org/fx"
)

var Module = fx.Module("student.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
