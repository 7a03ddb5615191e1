package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	schedservice "github.com/cloudnative-denmark/conference-companion/internal/schedule/service"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Redis     string    `json:"redis,omitempty"`
	Schedule  string    `json:"schedule,omitempty"`
}

// ScheduleState reports the current schedule snapshot.
type ScheduleState interface {
	State() schedservice.State
}

type HealthHandler struct {
	serviceName string
	version     string
	redis       *redis.Client
	schedule    ScheduleState
}

func NewHealthHandler(serviceName, version string, rdb *redis.Client, schedule ScheduleState) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		redis:       rdb,
		schedule:    schedule,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	redisStatus := "disabled"
	if h.redis != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.redis.Ping(pingCtx).Err(); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Redis:     redisStatus,
		Schedule:  h.scheduleStatus(),
	})
}

func (h *HealthHandler) scheduleStatus() string {
	if h.schedule == nil {
		return ""
	}
	st := h.schedule.State()
	switch {
	case st.Loading:
		return "loading"
	case st.Err != nil:
		return "error"
	}
	return "ready"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
