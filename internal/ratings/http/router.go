package http

import "github.com/gin-gonic/gin"

// Register mounts the author routes on rg and the moderation routes on admin.
// Both groups must already require an authenticated user.
func (h *Handler) Register(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	rg.POST("/ratings", h.CreateRating)
	rg.GET("/ratings/me", h.ListMine)
	rg.PATCH("/ratings/:id", h.UpdateRating)
	rg.DELETE("/ratings/:id", h.DeleteRating)
	rg.GET("/sessions/:id/ratings", h.ListApprovedForSession)
	rg.GET("/sessions/:id/ratings/me", h.GetMineForSession)
	rg.GET("/feedback", h.ListFeedback)

	admin.GET("/admin/ratings/pending", h.ListPending)
	admin.GET("/admin/ratings", h.ListAll)
	admin.POST("/admin/ratings/:id/moderate", h.Moderate)
}
