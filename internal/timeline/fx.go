package timeline

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/timeline/service"
	"go.uber.org/fx"
)

var Module = fx.Module("timeline.service",
	fx.Provide(service.NewService),
)
