package upload

import (
	"github.com/smallbiznis/demandcast/internal/upload/repository"
	"github.com/smallbiznis/demandcast/internal/upload/service"
	"go.uber.org/fx"
)

var Module = fx.Module("upload.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
