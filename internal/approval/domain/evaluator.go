package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RuleContext maps known quote dimensions (tcv, mrr, discount_ratio, ...) to
// their computed values. Keeping the values decimal makes a wrong-typed
// dimension unrepresentable instead of a silent comparison failure.
type RuleContext map[string]decimal.Decimal

// Evaluate returns the rules that fire against ctx, preserving input order.
// Rules whose dimension is absent from the context never fire.
func Evaluate(rules []ApprovalRule, ctx RuleContext) []FiredRule {
	fired := make([]FiredRule, 0)
	for _, rule := range rules {
		value, ok := ctx[rule.Dimension]
		if !ok {
			continue
		}
		if !compare(value, rule.Operator, rule.Threshold) {
			continue
		}
		fired = append(fired, FiredRule{
			RuleID:    rule.ID,
			Dimension: rule.Dimension,
			Operator:  rule.Operator,
			Threshold: rule.Threshold,
			Value:     value,
			Message:   Interpolate(rule.MessageTemplate, ctx),
		})
	}
	return fired
}

func compare(value decimal.Decimal, op Operator, threshold decimal.Decimal) bool {
	switch op {
	case OperatorGTE:
		return value.GreaterThanOrEqual(threshold)
	case OperatorGT:
		return value.GreaterThan(threshold)
	case OperatorLTE:
		return value.LessThanOrEqual(threshold)
	case OperatorLT:
		return value.LessThan(threshold)
	case OperatorEQ:
		return value.Equal(threshold)
	default:
		return false
	}
}

// Interpolate replaces every {key} placeholder with the context value's
// string form. Unmatched placeholders are left verbatim.
func Interpolate(template string, ctx RuleContext) string {
	var b strings.Builder
	b.Grow(len(template))

	for {
		open := strings.IndexByte(template, '{')
		if open < 0 {
			b.WriteString(template)
			break
		}
		closing := strings.IndexByte(template[open:], '}')
		if closing < 0 {
			b.WriteString(template)
			break
		}
		closing += open

		key := template[open+1 : closing]
		if value, ok := ctx[key]; ok {
			b.WriteString(template[:open])
			b.WriteString(value.String())
		} else {
			b.WriteString(template[:closing+1])
		}
		template = template[closing+1:]
	}

	return b.String()
}
