package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"shorestay/internal/infra/cms"
)

type ContentHandler struct {
	CMS *cms.Client
}

func (h ContentHandler) BySlug(c *gin.Context) {
	content, err := h.CMS.ContentBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "content source unavailable"})
		return
	}
	c.JSON(http.StatusOK, content)
}

var _ ContentHTTP = ContentHandler{}
