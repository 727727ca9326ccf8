package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetCatalog(c *gin.Context) {
	orgID, err := s.organizationSnowflake(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	catalog, err := s.catalogSvc.Snapshot(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": catalog})
}

func (s *Server) ListTemplates(c *gin.Context) {
	orgID, err := s.organizationSnowflake(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	templates, err := s.catalogSvc.ListTemplates(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": templates})
}

func (s *Server) GetTemplate(c *gin.Context) {
	orgID, err := s.organizationSnowflake(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	template, err := s.catalogSvc.Template(c.Request.Context(), orgID, c.Param("key"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": template})
}
