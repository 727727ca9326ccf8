package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderOrg       = "X-Org-ID"
	HeaderRequestID = "X-Request-ID"

	contextRequestIDKey = "request_id"
)

// RequestID propagates the caller's request id or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString(contextRequestIDKey)),
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, zap.Error(last.Err))
		}

		if c.Writer.Status() >= 500 {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// organizationID resolves the tenant from the X-Org-ID header, falling back
// to the configured default organization.
func (s *Server) organizationID(c *gin.Context) string {
	if raw := strings.TrimSpace(c.GetHeader(HeaderOrg)); raw != "" {
		return raw
	}
	return strconv.FormatInt(s.cfg.DefaultOrgID, 10)
}

func (s *Server) organizationSnowflake(c *gin.Context) (snowflake.ID, error) {
	raw := s.organizationID(c)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, newValidationError("organization_id", "invalid_organization", "invalid organization id")
	}
	return snowflake.ParseInt64(value), nil
}
