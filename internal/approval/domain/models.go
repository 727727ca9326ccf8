// Package domain contains approval rule models and the threshold evaluator.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Operator is a threshold comparison supported by approval rules.
type Operator string

const (
	OperatorGTE Operator = ">="
	OperatorGT  Operator = ">"
	OperatorLTE Operator = "<="
	OperatorLT  Operator = "<"
	OperatorEQ  Operator = "=="
)

// ApprovalRule fires when a quote dimension crosses its threshold.
type ApprovalRule struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	Dimension       string          `json:"dimension" gorm:"type:text;not null"`
	Operator        Operator        `json:"operator" gorm:"type:text;not null"`
	Threshold       decimal.Decimal `json:"threshold" gorm:"type:numeric;not null"`
	MessageTemplate string          `json:"message_template" gorm:"type:text;not null"`
	Active          bool            `json:"active" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ApprovalRule) TableName() string { return "approval_rules" }

// FiredRule is an evaluated rule with its interpolated message.
type FiredRule struct {
	RuleID    snowflake.ID    `json:"rule_id"`
	Dimension string          `json:"dimension"`
	Operator  Operator        `json:"operator"`
	Threshold decimal.Decimal `json:"threshold"`
	Value     decimal.Decimal `json:"value"`
	Message   string          `json:"message"`
}
