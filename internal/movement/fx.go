package movement

import (
	"github.com/cirrusops/revenue/internal/movement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("movement.service",
	fx.Provide(service.New),
)
