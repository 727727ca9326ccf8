package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type runMovementRequest struct {
	Date   string `json:"date"`
	AllOrg bool   `json:"all_organizations"`
}

func (s *Server) RunMovementBatch(c *gin.Context) {
	var req runMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	if req.AllOrg {
		report, err := s.movementSvc.RunAll(c.Request.Context(), date, 0)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": report})
		return
	}

	orgID, err := s.organizationSnowflake(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := s.movementSvc.RunBatch(c.Request.Context(), orgID, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) ListMovementSnapshots(c *gin.Context) {
	var query struct {
		From string `form:"from"`
		To   string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, err := s.organizationSnowflake(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	from := time.Time{}
	to := time.Now().UTC()
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

	snapshots, err := s.movementSvc.ListSnapshots(c.Request.Context(), orgID, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snapshots})
}
