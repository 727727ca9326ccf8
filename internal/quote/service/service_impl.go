package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/pricing"
	"github.com/cirrusops/revenue/internal/quote/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
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
		log:   p.Log.Named("quote.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.QuoteDetail, error) {
	orgID, err := parseID(req.OrganizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrg
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, domain.ErrInvalidCustomer
	}

	quote := &domain.SalesQuote{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerCompany: req.CustomerCompany,
		CustomerEmail:   req.CustomerEmail,
		Status:          domain.QuoteDraft,
		DiscountPct:     req.DiscountPct,
		Notes:           req.Notes,
		ValidUntil:      req.ValidUntil,
		CreatedBy:       req.CreatedBy,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quote).Error; err != nil {
			return err
		}
		if len(req.Items) > 0 {
			if err := s.replaceItems(tx, quote.ID, req.Items); err != nil {
				return err
			}
			return s.recalcTotals(tx, quote)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, quote)
}

func (s *Service) Get(ctx context.Context, organizationID, id string) (*domain.QuoteDetail, error) {
	quote, err := s.fetch(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, quote)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.SalesQuote, error) {
	orgID, err := parseID(req.OrganizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrg
	}

	query := s.db.WithContext(ctx).Where("org_id = ?", orgID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}
	if req.Offset > 0 {
		query = query.Offset(req.Offset)
	}

	var rows []domain.SalesQuote
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.QuoteDetail, error) {
	quote, err := s.fetch(ctx, req.OrganizationID, req.ID)
	if err != nil {
		return nil, err
	}
	if !domain.Editable(quote.Status) {
		return nil, domain.ErrNotEditable
	}

	updates := map[string]interface{}{}
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.CustomerCompany != nil {
		updates["customer_company"] = *req.CustomerCompany
	}
	if req.CustomerEmail != nil {
		updates["customer_email"] = *req.CustomerEmail
	}
	if req.DiscountPct != nil {
		updates["discount_pct"] = *req.DiscountPct
		quote.DiscountPct = *req.DiscountPct
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(quote).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Items != nil {
			if err := s.replaceItems(tx, quote.ID, req.Items); err != nil {
				return err
			}
		}
		if req.Items != nil || req.DiscountPct != nil {
			return s.recalcTotals(tx, quote)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, quote)
}

func (s *Service) Delete(ctx context.Context, organizationID, id string) error {
	quote, err := s.fetch(ctx, organizationID, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&domain.SalesQuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(quote).Error
	})
}

func (s *Service) Send(ctx context.Context, organizationID, id string) (*domain.SalesQuote, error) {
	quote, err := s.fetch(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&domain.SalesQuoteItem{}).
		Where("quote_id = ?", quote.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrEmptyQuote
	}

	return s.transition(ctx, quote, domain.QuoteSent)
}

func (s *Service) Accept(ctx context.Context, organizationID, id string) (*domain.SalesQuote, error) {
	quote, err := s.fetch(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, quote, domain.QuoteAccepted)
}

func (s *Service) Reject(ctx context.Context, organizationID, id string) (*domain.SalesQuote, error) {
	quote, err := s.fetch(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, quote, domain.QuoteRejected)
}

func (s *Service) ConvertToOrder(ctx context.Context, organizationID, id string) (*domain.Order, error) {
	quote, err := s.fetch(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != domain.QuoteAccepted {
		return nil, domain.ErrNotAccepted
	}

	order := &domain.Order{
		ID:              s.genID.Generate(),
		OrgID:           quote.OrgID,
		QuoteID:         quote.ID,
		CustomerName:    quote.CustomerName,
		CustomerCompany: quote.CustomerCompany,
		CustomerEmail:   quote.CustomerEmail,
		Status:          domain.OrderPending,
		Total:           quote.Total,
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, req domain.ListOrdersRequest) ([]domain.Order, error) {
	orgID, err := parseID(req.OrganizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrg
	}

	query := s.db.WithContext(ctx).Where("org_id = ?", orgID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Limit > 0 {
		query = query.Limit(req.Limit)
	}
	if req.Offset > 0 {
		query = query.Offset(req.Offset)
	}

	var rows []domain.Order
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) UpdateOrder(ctx context.Context, req domain.UpdateOrderRequest) (*domain.Order, error) {
	orgID, err := parseID(req.OrganizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrg
	}
	orderID, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var order domain.Order
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, orderID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Status != "" {
		if !domain.ValidOrderStatus(req.Status) {
			return nil, domain.ErrInvalidOrderStatus
		}
		updates["status"] = req.Status
		order.Status = req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
		order.Notes = *req.Notes
	}
	if len(updates) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) fetch(ctx context.Context, organizationID, id string) (*domain.SalesQuote, error) {
	orgID, err := parseID(organizationID)
	if err != nil {
		return nil, domain.ErrInvalidOrg
	}
	quoteID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var quote domain.SalesQuote
	if err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, quoteID).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (s *Service) detail(ctx context.Context, quote *domain.SalesQuote) (*domain.QuoteDetail, error) {
	var items []domain.SalesQuoteItem
	if err := s.db.WithContext(ctx).
		Where("quote_id = ?", quote.ID).
		Order("sort_order ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return &domain.QuoteDetail{SalesQuote: *quote, Items: items}, nil
}

func (s *Service) transition(ctx context.Context, quote *domain.SalesQuote, target domain.QuoteStatus) (*domain.SalesQuote, error) {
	if !domain.CanTransition(quote.Status, target) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.db.WithContext(ctx).
		Model(quote).
		Update("status", target).Error; err != nil {
		return nil, err
	}
	quote.Status = target
	return quote, nil
}

// replaceItems swaps a quote's line items wholesale; line totals are
// recomputed from quantity and unit price, never trusted from input.
func (s *Service) replaceItems(tx *gorm.DB, quoteID snowflake.ID, items []domain.ItemInput) error {
	if err := tx.Where("quote_id = ?", quoteID).Delete(&domain.SalesQuoteItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([]domain.SalesQuoteItem, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		rows = append(rows, domain.SalesQuoteItem{
			ID:          s.genID.Generate(),
			QuoteID:     quoteID,
			Description: item.Description,
			Quantity:    quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.UnitPrice.Mul(decimal.NewFromFloat(quantity)),
			SortOrder:   item.SortOrder,
		})
	}
	return tx.Create(&rows).Error
}

// recalcTotals rederives subtotal and total from the stored items. The
// discount percentage runs through the same clamped ratio as quote previews.
func (s *Service) recalcTotals(tx *gorm.DB, quote *domain.SalesQuote) error {
	var items []domain.SalesQuoteItem
	if err := tx.Where("quote_id = ?", quote.ID).Find(&items).Error; err != nil {
		return err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	ratio := pricing.CombinedDiscount("", "", quote.DiscountPct, nil, nil)
	total := subtotal.Mul(decimal.NewFromInt(1).Sub(ratio))

	quote.Subtotal = subtotal
	quote.Total = total
	return tx.Model(quote).Updates(map[string]interface{}{
		"subtotal": subtotal,
		"total":    total,
	}).Error
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ParseInt64(value), nil
}
