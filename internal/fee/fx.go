package fee

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/fee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fee.service",
	fx.Provide(
		service.NewCalculator,
		service.NewService,
	),
)
