package forecast

import (
	"github.com/smallbiznis/demandcast/internal/forecast/repository"
	"github.com/smallbiznis/demandcast/internal/forecast/service"
	"go.uber.org/fx"
)

var Module = fx.Module("forecast.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
