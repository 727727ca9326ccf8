package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*QuoteDetail, error)
	Get(ctx context.Context, organizationID, id string) (*QuoteDetail, error)
	List(ctx context.Context, req ListRequest) ([]SalesQuote, error)
	// Update edits commercial fields and, when Items is non-nil, replaces the
	// line items and recalculates totals. Only draft and sent quotes are
	// editable.
	Update(ctx context.Context, req UpdateRequest) (*QuoteDetail, error)
	Delete(ctx context.Context, organizationID, id string) error

	// Send moves draft -> sent. A quote with no line items cannot be sent.
	Send(ctx context.Context, organizationID, id string) (*SalesQuote, error)
	Accept(ctx context.Context, organizationID, id string) (*SalesQuote, error)
	Reject(ctx context.Context, organizationID, id string) (*SalesQuote, error)

	// ConvertToOrder creates a pending order from an accepted quote.
	ConvertToOrder(ctx context.Context, organizationID, id string) (*Order, error)
	ListOrders(ctx context.Context, req ListOrdersRequest) ([]Order, error)
	UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*Order, error)
}

// ItemInput is one incoming line item; totals are computed server-side.
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SortOrder   int             `json:"sort_order"`
}

type CreateRequest struct {
	OrganizationID  string          `json:"organization_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerCompany string          `json:"customer_company"`
	CustomerEmail   string          `json:"customer_email"`
	DiscountPct     decimal.Decimal `json:"discount_pct"`
	Notes           string          `json:"notes"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
	CreatedBy       string          `json:"created_by"`
	Items           []ItemInput     `json:"items"`
}

type ListRequest struct {
	OrganizationID string      `json:"organization_id"`
	Status         QuoteStatus `json:"status,omitempty"`
	Limit          int         `json:"limit"`
	Offset         int         `json:"offset"`
}

type UpdateRequest struct {
	OrganizationID  string           `json:"organization_id"`
	ID              string           `json:"id"`
	CustomerName    *string          `json:"customer_name,omitempty"`
	CustomerCompany *string          `json:"customer_company,omitempty"`
	CustomerEmail   *string          `json:"customer_email,omitempty"`
	DiscountPct     *decimal.Decimal `json:"discount_pct,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
	Items           []ItemInput      `json:"items,omitempty"`
}

type ListOrdersRequest struct {
	OrganizationID string      `json:"organization_id"`
	Status         OrderStatus `json:"status,omitempty"`
	Limit          int         `json:"limit"`
	Offset         int         `json:"offset"`
}

type UpdateOrderRequest struct {
	OrganizationID string      `json:"organization_id"`
	ID             string      `json:"id"`
	Status         OrderStatus `json:"status,omitempty"`
	Notes          *string     `json:"notes,omitempty"`
}

// QuoteDetail is a quote with its line items loaded.
type QuoteDetail struct {
	SalesQuote
	Items []SalesQuoteItem `json:"items"`
}

var (
	ErrQuoteNotFound      = errors.New("quote_not_found")
	ErrOrderNotFound      = errors.New("order_not_found")
	ErrInvalidOrg         = errors.New("invalid_organization")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidCustomer    = errors.New("invalid_customer_name")
	ErrNotEditable        = errors.New("quote_not_editable")
	ErrInvalidTransition  = errors.New("invalid_status_transition")
	ErrEmptyQuote         = errors.New("quote_has_no_items")
	ErrNotAccepted        = errors.New("quote_not_accepted")
	ErrInvalidOrderStatus = errors.New("invalid_order_status")
	ErrNoFieldsToUpdate   = errors.New("no_fields_to_update")
)
