package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/service"
	"github.com/cloudnative-denmark/conference-companion/internal/timefmt"
)

type Handler struct {
	schedule  *service.ScheduleService
	formatter timefmt.Formatter
}

func New(schedule *service.ScheduleService, formatter timefmt.Formatter) *Handler {
	return &Handler{
		schedule:  schedule,
		formatter: formatter,
	}
}

type scheduleResponse struct {
	Schedule  []domain.GridEntry `json:"schedule"`
	Loading   bool               `json:"loading"`
	Error     *string            `json:"error"`
	FetchedAt *time.Time         `json:"fetched_at,omitempty"`
}

func toResponse(st service.State) scheduleResponse {
	resp := scheduleResponse{Schedule: st.Schedule, Loading: st.Loading}
	if st.Err != nil {
		msg := st.Err.Error()
		resp.Error = &msg
	}
	if !st.FetchedAt.IsZero() {
		at := st.FetchedAt
		resp.FetchedAt = &at
	}
	return resp
}

// GetSchedule returns the current snapshot with its loading and error state
func (h *Handler) GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, toResponse(h.schedule.State()))
}

// Refetch bypasses the feed cache, pulls the provider feeds again and reconciles them
func (h *Handler) Refetch(c *gin.Context) {
	if err := h.schedule.ForceRefetch(c.Request.Context()); err != nil {
		status := http.StatusInternalServerError
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(h.schedule.State()))
}

func (h *Handler) GetTimetable(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": service.BuildTimetables(h.formatter, h.schedule.Schedule())})
}

func (h *Handler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.schedule.AllSessions()})
}

func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.schedule.SessionByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":          session,
		"duration_minutes": durationOrNil(h.formatter.CalculateSessionDuration(session.StartsAt, session.EndsAt)),
		"started":          h.formatter.HasSessionStarted(session.StartsAt),
		"ended":            h.formatter.HasSessionEnded(session.EndsAt),
		"starts_at_label":  h.formatter.FormatDateTimeDetailed(session.StartsAt),
	})
}

// ListSpeakers returns the speakers shown on the speakers page
func (h *Handler) ListSpeakers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"speakers": h.schedule.Speakers()})
}

func (h *Handler) ListSpeakerSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session_ids": h.schedule.SpeakerSessionIDs(c.Param("id"))})
}

// durationOrNil keeps NaN out of the JSON encoder.
func durationOrNil(minutes float64) *float64 {
	if minutes != minutes {
		return nil
	}
	return &minutes
}
