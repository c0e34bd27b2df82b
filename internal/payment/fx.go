package payment

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(service.NewService),
)
