package server

import (
	"net/http"

	approvaldomain "github.com/cirrusops/revenue/internal/approval/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createApprovalRuleRequest struct {
	Dimension       string          `json:"dimension"`
	Operator        string          `json:"operator"`
	Threshold       decimal.Decimal `json:"threshold"`
	MessageTemplate string          `json:"message_template"`
}

type evaluateApprovalRequest struct {
	Dimensions map[string]decimal.Decimal `json:"dimensions"`
}

func (s *Server) CreateApprovalRule(c *gin.Context) {
	var req createApprovalRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rule, err := s.approvalSvc.Create(c.Request.Context(), approvaldomain.CreateRequest{
		OrganizationID:  s.organizationID(c),
		Dimension:       req.Dimension,
		Operator:        approvaldomain.Operator(req.Operator),
		Threshold:       req.Threshold,
		MessageTemplate: req.MessageTemplate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rule})
}

func (s *Server) ListApprovalRules(c *gin.Context) {
	rules, err := s.approvalSvc.List(c.Request.Context(), s.organizationID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rules})
}

func (s *Server) ArchiveApprovalRule(c *gin.Context) {
	if err := s.approvalSvc.Archive(c.Request.Context(), s.organizationID(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) EvaluateApprovalRules(c *gin.Context) {
	var req evaluateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fired, err := s.approvalSvc.Evaluate(c.Request.Context(), s.organizationID(c), approvaldomain.RuleContext(req.Dimensions))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": fired})
}
