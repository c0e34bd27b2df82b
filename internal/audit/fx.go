package audit

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(service.NewService),
)
