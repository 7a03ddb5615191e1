package http

import "github.com/gin-gonic/gin"

// Register mounts the public schedule routes on rg and the refetch trigger on admin.
func (h *Handler) Register(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	rg.GET("/schedule", h.GetSchedule)
	rg.GET("/schedule/timetable", h.GetTimetable)
	rg.GET("/sessions", h.ListSessions)
	rg.GET("/sessions/:id", h.GetSession)
	rg.GET("/speakers", h.ListSpeakers)
	rg.GET("/speakers/:id/sessions", h.ListSpeakerSessions)

	admin.POST("/schedule/refetch", h.Refetch)
}
