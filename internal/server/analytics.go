package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetForecast(c *gin.Context) {
	forecast, err := s.analyticsSvc.Forecast(c.Request.Context(), s.organizationID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": forecast})
}

func (s *Server) GetCohortRetention(c *gin.Context) {
	var query struct {
		From string `form:"from"`
		To   string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from := time.Time{}
	to := time.Now().UTC()
	var err error
	if query.From != "" {
		if from, err = time.Parse("2006-01-02", query.From); err != nil {
			AbortWithError(c, newValidationError("from", "invalid_date", "from must be YYYY-MM-DD"))
			return
		}
	}
	if query.To != "" {
		if to, err = time.Parse("2006-01-02", query.To); err != nil {
			AbortWithError(c, newValidationError("to", "invalid_date", "to must be YYYY-MM-DD"))
			return
		}
	}

	cohorts, err := s.analyticsSvc.CohortRetention(c.Request.Context(), s.organizationID(c), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cohorts})
}

func (s *Server) GetNetRevenueRetention(c *gin.Context) {
	raw := c.Query("month")
	if raw == "" {
		AbortWithError(c, newValidationError("month", "required", "month is required"))
		return
	}
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		AbortWithError(c, newValidationError("month", "invalid_month", "month must be YYYY-MM"))
		return
	}

	nrr, err := s.analyticsSvc.NetRevenueRetention(c.Request.Context(), s.organizationID(c), month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": nrr})
}
