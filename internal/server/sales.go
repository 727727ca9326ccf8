package server

import (
	"net/http"
	"time"

	quotedomain "github.com/cirrusops/revenue/internal/quote/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type salesQuoteItemInput struct {
	Description string          `json:"description"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SortOrder   int             `json:"sort_order"`
}

type createSalesQuoteRequest struct {
	CustomerName    string                `json:"customer_name"`
	CustomerCompany string                `json:"customer_company"`
	CustomerEmail   string                `json:"customer_email"`
	DiscountPct     decimal.Decimal       `json:"discount_pct"`
	Notes           string                `json:"notes"`
	ValidUntil      *time.Time            `json:"valid_until,omitempty"`
	CreatedBy       string                `json:"created_by"`
	Items           []salesQuoteItemInput `json:"items"`
}

type updateSalesQuoteRequest struct {
	CustomerName    *string               `json:"customer_name,omitempty"`
	CustomerCompany *string               `json:"customer_company,omitempty"`
	CustomerEmail   *string               `json:"customer_email,omitempty"`
	DiscountPct     *decimal.Decimal      `json:"discount_pct,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	ValidUntil      *time.Time            `json:"valid_until,omitempty"`
	Items           []salesQuoteItemInput `json:"items,omitempty"`
}

type updateOrderRequest struct {
	Status string  `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func toItemInputs(items []salesQuoteItemInput) []quotedomain.ItemInput {
	if items == nil {
		return nil
	}
	out := make([]quotedomain.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, quotedomain.ItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			SortOrder:   item.SortOrder,
		})
	}
	return out
}

func (s *Server) CreateSalesQuote(c *gin.Context) {
	var req createSalesQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quote, err := s.quoteSvc.Create(c.Request.Context(), quotedomain.CreateRequest{
		OrganizationID:  s.organizationID(c),
		CustomerName:    req.CustomerName,
		CustomerCompany: req.CustomerCompany,
		CustomerEmail:   req.CustomerEmail,
		DiscountPct:     req.DiscountPct,
		Notes:           req.Notes,
		ValidUntil:      req.ValidUntil,
		CreatedBy:       req.CreatedBy,
		Items:           toItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": quote})
}

func (s *Server) ListSalesQuotes(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Limit  int    `form:"limit,default=50"`
		Offset int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quotes, err := s.quoteSvc.List(c.Request.Context(), quotedomain.ListRequest{
		OrganizationID: s.organizationID(c),
		Status:         quotedomain.QuoteStatus(query.Status),
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

func (s *Server) GetSalesQuote(c *gin.Context) {
	quote, err := s.quoteSvc.Get(c.Request.Context(), s.organizationID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) UpdateSalesQuote(c *gin.Context) {
	var req updateSalesQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quote, err := s.quoteSvc.Update(c.Request.Context(), quotedomain.UpdateRequest{
		OrganizationID:  s.organizationID(c),
		ID:              c.Param("id"),
		CustomerName:    req.CustomerName,
		CustomerCompany: req.CustomerCompany,
		CustomerEmail:   req.CustomerEmail,
		DiscountPct:     req.DiscountPct,
		Notes:           req.Notes,
		ValidUntil:      req.ValidUntil,
		Items:           toItemInputs(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) DeleteSalesQuote(c *gin.Context) {
	if err := s.quoteSvc.Delete(c.Request.Context(), s.organizationID(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) SendSalesQuote(c *gin.Context) {
	quote, err := s.quoteSvc.Send(c.Request.Context(), s.organizationID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) AcceptSalesQuote(c *gin.Context) {
	quote, err := s.quoteSvc.Accept(c.Request.Context(), s.organizationID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) RejectSalesQuote(c *gin.Context) {
	quote, err := s.quoteSvc.Reject(c.Request.Context(), s.organizationID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) ConvertSalesQuoteToOrder(c *gin.Context) {
	order, err := s.quoteSvc.ConvertToOrder(c.Request.Context(), s.organizationID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": order})
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		Limit  int    `form:"limit,default=50"`
		Offset int    `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orders, err := s.quoteSvc.ListOrders(c.Request.Context(), quotedomain.ListOrdersRequest{
		OrganizationID: s.organizationID(c),
		Status:         quotedomain.OrderStatus(query.Status),
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (s *Server) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.quoteSvc.UpdateOrder(c.Request.Context(), quotedomain.UpdateOrderRequest{
		OrganizationID: s.organizationID(c),
		ID:             c.Param("id"),
		Status:         quotedomain.OrderStatus(req.Status),
		Notes:          req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}
