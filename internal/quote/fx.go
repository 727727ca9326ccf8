package quote

import (
	"github.com/cirrusops/revenue/internal/quote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quote",
	fx.Provide(service.New),
)
