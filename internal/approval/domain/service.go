package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ApprovalRule, error)
	List(ctx context.Context, organizationID string) ([]ApprovalRule, error)
	Evaluate(ctx context.Context, organizationID string, ruleCtx RuleContext) ([]FiredRule, error)
	Archive(ctx context.Context, organizationID, id string) error
}

type CreateRequest struct {
	OrganizationID  string          `json:"organization_id"`
	Dimension       string          `json:"dimension"`
	Operator        Operator        `json:"operator"`
	Threshold       decimal.Decimal `json:"threshold"`
	MessageTemplate string          `json:"message_template"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidDimension    = errors.New("invalid_dimension")
	ErrInvalidOperator     = errors.New("invalid_operator")
	ErrInvalidTemplate     = errors.New("invalid_message_template")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
