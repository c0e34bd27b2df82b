package pricing

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/repository"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
