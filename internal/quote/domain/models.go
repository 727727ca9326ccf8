// Package domain contains persisted sales quotes, their line items, and the
// orders accepted quotes convert into.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// QuoteStatus is a sales quote lifecycle state.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// quoteTransitions is the allowed lifecycle graph. Accepted, rejected, and
// expired are terminal.
var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft: {QuoteSent},
	QuoteSent:  {QuoteAccepted, QuoteRejected},
}

// CanTransition reports whether a quote may move from one status to another.
func CanTransition(from, to QuoteStatus) bool {
	for _, allowed := range quoteTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Editable reports whether line items and commercial fields may still change.
func Editable(status QuoteStatus) bool {
	return status == QuoteDraft || status == QuoteSent
}

// SalesQuote is a customer-facing quote document. Subtotal and Total are
// derived from the line items and the discount; they are recalculated on
// every item change, never written directly.
type SalesQuote struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	CustomerName    string          `json:"customer_name" gorm:"type:text;not null"`
	CustomerCompany string          `json:"customer_company" gorm:"type:text"`
	CustomerEmail   string          `json:"customer_email" gorm:"type:text"`
	Status          QuoteStatus     `json:"status" gorm:"type:text;not null;default:draft"`
	DiscountPct     decimal.Decimal `json:"discount_pct" gorm:"type:numeric;not null;default:0"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric;not null;default:0"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric;not null;default:0"`
	Notes           string          `json:"notes" gorm:"type:text"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
	CreatedBy       string          `json:"created_by" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SalesQuote) TableName() string { return "sales_quotes" }

// SalesQuoteItem is one line of a quote. Total = Quantity x UnitPrice.
type SalesQuoteItem struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	QuoteID     snowflake.ID    `json:"quote_id" gorm:"column:quote_id;not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Quantity    float64         `json:"quantity" gorm:"not null;default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:numeric;not null"`
	SortOrder   int             `json:"sort_order" gorm:"not null;default:0"`
}

func (SalesQuoteItem) TableName() string { return "sales_quote_items" }

// OrderStatus is an order fulfillment state.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderFulfilled  OrderStatus = "fulfilled"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether a status is one of the order states.
func ValidOrderStatus(status OrderStatus) bool {
	switch status {
	case OrderPending, OrderProcessing, OrderFulfilled, OrderCancelled:
		return true
	default:
		return false
	}
}

// Order is the fulfillment record created from an accepted quote.
type Order struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	QuoteID         snowflake.ID    `json:"quote_id" gorm:"column:quote_id;not null;index"`
	CustomerName    string          `json:"customer_name" gorm:"type:text;not null"`
	CustomerCompany string          `json:"customer_company" gorm:"type:text"`
	CustomerEmail   string          `json:"customer_email" gorm:"type:text"`
	Status          OrderStatus     `json:"status" gorm:"type:text;not null;default:pending"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric;not null;default:0"`
	Notes           string          `json:"notes" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }
