package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudnative-denmark/conference-companion/internal/content"
)

// Register mounts the listings on rg and serves sponsor logos from r.
func (h *Handler) Register(r gin.IRoutes, rg *gin.RouterGroup) {
	rg.GET("/sponsors", h.ListSponsors)
	rg.GET("/hotels", h.ListHotels)

	r.Static(content.LogoURLPrefix, h.catalog.SponsorsDir())
}
