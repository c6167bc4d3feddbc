package config

import (
	"github.com/smallbiznis/demandcast/pkg/db"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewForecastConfigHolder,
		func(cfg Config) db.Config { return cfg.DBConfig() },
	),
)
