package catalog

import (
	"github.com/cirrusops/revenue/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(service.New),
)
