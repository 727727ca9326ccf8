// Package analytics wires the forecast, cohort retention, and net revenue
// retention service into the application graph. The aggregations themselves
// live in the domain package as pure folds.
package analytics

import (
	"github.com/cirrusops/revenue/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics",
	fx.Provide(service.New),
)
