package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudnative-denmark/conference-companion/internal/content"
)

type Handler struct {
	catalog *content.Catalog
}

func New(catalog *content.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// ListSponsors returns the enabled sponsors grouped by tier
func (h *Handler) ListSponsors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sponsors": h.catalog.Sponsors()})
}

// ListHotels returns the recommended hotels
func (h *Handler) ListHotels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"hotels": h.catalog.Hotels()})
}
