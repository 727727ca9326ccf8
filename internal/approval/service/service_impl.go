package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/approval/domain"
	"github.com/cirrusops/revenue/pkg/db/option"
	"github.com/cirrusops/revenue/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	rules repository.Repository[domain.ApprovalRule]
}

type Param struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func New(p Param) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("approval.service"),
		genID: p.GenID,
		rules: repository.ProvideStore[domain.ApprovalRule](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.ApprovalRule, error) {
	orgID, err := parseID(req.OrganizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}
	if strings.TrimSpace(req.Dimension) == "" {
		return nil, domain.ErrInvalidDimension
	}
	if !validOperator(req.Operator) {
		return nil, domain.ErrInvalidOperator
	}
	if strings.TrimSpace(req.MessageTemplate) == "" {
		return nil, domain.ErrInvalidTemplate
	}

	rule := &domain.ApprovalRule{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		Dimension:       strings.TrimSpace(req.Dimension),
		Operator:        req.Operator,
		Threshold:       req.Threshold,
		MessageTemplate: req.MessageTemplate,
		Active:          true,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) List(ctx context.Context, organizationID string) ([]domain.ApprovalRule, error) {
	orgID, err := parseID(organizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	rows, err := s.rules.Find(ctx,
		&domain.ApprovalRule{OrgID: orgID, Active: true},
		option.WithOrder("created_at ASC, id ASC"),
	)
	if err != nil {
		return nil, err
	}

	rules := make([]domain.ApprovalRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, *row)
	}
	return rules, nil
}

func (s *Service) Evaluate(ctx context.Context, organizationID string, ruleCtx domain.RuleContext) ([]domain.FiredRule, error) {
	rules, err := s.List(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return domain.Evaluate(rules, ruleCtx), nil
}

func (s *Service) Archive(ctx context.Context, organizationID, id string) error {
	orgID, err := parseID(organizationID)
	if err != nil {
		return domain.ErrInvalidOrganization
	}
	ruleID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	result := s.db.WithContext(ctx).
		Model(&domain.ApprovalRule{}).
		Where("org_id = ? AND id = ?", orgID, ruleID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func validOperator(op domain.Operator) bool {
	switch op {
	case domain.OperatorGTE, domain.OperatorGT, domain.OperatorLTE, domain.OperatorLT, domain.OperatorEQ:
		return true
	default:
		return false
	}
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ParseInt64(value), nil
}
