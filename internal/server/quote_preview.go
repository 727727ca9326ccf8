package server

import (
	"net/http"
	"time"

	approvaldomain "github.com/cirrusops/revenue/internal/approval/domain"
	"github.com/cirrusops/revenue/internal/metrics"
	"github.com/cirrusops/revenue/internal/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type previewQuoteRequest struct {
	FeatureQuantities     map[string]float64 `json:"feature_quantities"`
	UsageQuantities       map[string]float64 `json:"usage_quantities"`
	Term                  string             `json:"term"`
	BillingFrequency      string             `json:"billing_frequency"`
	AdditionalDiscountPct decimal.Decimal    `json:"additional_discount_pct"`
	ServiceID             string             `json:"service_id"`
	ServiceQuantity       float64            `json:"service_quantity"`
}

type previewDynamicRequest struct {
	TemplateKey           string             `json:"template_key"`
	Quantities            map[string]float64 `json:"quantities"`
	Term                  string             `json:"term"`
	BillingFrequency      string             `json:"billing_frequency"`
	AdditionalDiscountPct decimal.Decimal    `json:"additional_discount_pct"`
}

func (s *Server) PreviewStaticQuote(c *gin.Context) {
	var req previewQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, err := s.organizationSnowflake(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	catalog, err := s.catalogSvc.Snapshot(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	start := time.Now()
	result := pricing.CalculateStaticQuote(pricing.QuoteContext{
		FeatureQuantities:     req.FeatureQuantities,
		UsageQuantities:       req.UsageQuantities,
		TermKey:               req.Term,
		BillingKey:            req.BillingFrequency,
		AdditionalDiscountPct: req.AdditionalDiscountPct,
		ServiceID:             req.ServiceID,
		ServiceQuantity:       req.ServiceQuantity,
	}, *catalog)
	metrics.Quote().ObserveDuration("static", time.Since(start))
	metrics.Quote().IncComputation("static", nil)

	fired, err := s.approvalSvc.Evaluate(c.Request.Context(), s.organizationID(c), approvaldomain.RuleContext{
		"mrr":          result.MonthlyRecurring,
		"arr":          result.AnnualRecurring,
		"tcv":          result.TotalContractValue,
		"discount_pct": result.DiscountRatio.Mul(decimal.NewFromInt(100)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result, "approvals": fired})
}

func (s *Server) PreviewDynamicQuote(c *gin.Context) {
	var req previewDynamicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.TemplateKey == "" {
		AbortWithError(c, newValidationError("template_key", "required", "template_key is required"))
		return
	}

	orgID, err := s.organizationSnowflake(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	template, err := s.catalogSvc.Template(c.Request.Context(), orgID, req.TemplateKey)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	catalog, err := s.catalogSvc.Snapshot(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	start := time.Now()
	result := pricing.CalculateDynamicQuoteWithCatalog(*template, req.Quantities, pricing.QuoteContext{
		TermKey:               req.Term,
		BillingKey:            req.BillingFrequency,
		AdditionalDiscountPct: req.AdditionalDiscountPct,
	}, *catalog)
	metrics.Quote().ObserveDuration("dynamic", time.Since(start))
	metrics.Quote().IncComputation("dynamic", nil)

	fired, err := s.approvalSvc.Evaluate(c.Request.Context(), s.organizationID(c), approvaldomain.RuleContext{
		"mrr":          result.MonthlyRecurring,
		"arr":          result.AnnualRecurring,
		"tcv":          result.TotalContractValue,
		"discount_pct": result.DiscountRatio.Mul(decimal.NewFromInt(100)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result, "approvals": fired})
}
