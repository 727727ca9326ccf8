// Package server exposes the quote, approval, movement, and analytics
// operations over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/cirrusops/revenue/internal/analytics/domain"
	approvaldomain "github.com/cirrusops/revenue/internal/approval/domain"
	catalogdomain "github.com/cirrusops/revenue/internal/catalog/domain"
	"github.com/cirrusops/revenue/internal/config"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	quotedomain "github.com/cirrusops/revenue/internal/quote/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	genID        *snowflake.Node
	approvalSvc  approvaldomain.Service
	analyticsSvc analyticsdomain.Service
	catalogSvc   catalogdomain.Service
	movementSvc  movementdomain.Service
	quoteSvc     quotedomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	GenID        *snowflake.Node
	ApprovalSvc  approvaldomain.Service
	AnalyticsSvc analyticsdomain.Service
	CatalogSvc   catalogdomain.Service
	MovementSvc  movementdomain.Service
	QuoteSvc     quotedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		genID:        p.GenID,
		approvalSvc:  p.ApprovalSvc,
		analyticsSvc: p.AnalyticsSvc,
		catalogSvc:   p.CatalogSvc,
		movementSvc:  p.MovementSvc,
		quoteSvc:     p.QuoteSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/quotes/preview", s.PreviewStaticQuote)
	v1.POST("/quotes/preview/dynamic", s.PreviewDynamicQuote)

	v1.GET("/catalog", s.GetCatalog)
	v1.GET("/templates", s.ListTemplates)
	v1.GET("/templates/:key", s.GetTemplate)

	v1.POST("/approval-rules", s.CreateApprovalRule)
	v1.GET("/approval-rules", s.ListApprovalRules)
	v1.DELETE("/approval-rules/:id", s.ArchiveApprovalRule)
	v1.POST("/approval-rules/evaluate", s.EvaluateApprovalRules)

	v1.POST("/movements/run", s.RunMovementBatch)
	v1.GET("/movements/snapshots", s.ListMovementSnapshots)

	v1.GET("/analytics/forecast", s.GetForecast)
	v1.GET("/analytics/cohorts", s.GetCohortRetention)
	v1.GET("/analytics/nrr", s.GetNetRevenueRetention)

	v1.GET("/sales/quotes", s.ListSalesQuotes)
	v1.POST("/sales/quotes", s.CreateSalesQuote)
	v1.GET("/sales/quotes/:id", s.GetSalesQuote)
	v1.PUT("/sales/quotes/:id", s.UpdateSalesQuote)
	v1.DELETE("/sales/quotes/:id", s.DeleteSalesQuote)
	v1.POST("/sales/quotes/:id/send", s.SendSalesQuote)
	v1.POST("/sales/quotes/:id/accept", s.AcceptSalesQuote)
	v1.POST("/sales/quotes/:id/reject", s.RejectSalesQuote)
	v1.POST("/sales/quotes/:id/convert-to-order", s.ConvertSalesQuoteToOrder)
	v1.GET("/sales/orders", s.ListOrders)
	v1.PUT("/sales/orders/:id", s.UpdateOrder)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
