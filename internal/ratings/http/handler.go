package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudnative-denmark/conference-companion/internal/auth"
	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/ratings/service"
	"github.com/cloudnative-denmark/conference-companion/internal/validation"
)

// ViewerResolver describes the signed-in user for the feedback screen.
type ViewerResolver func(ctx context.Context, uid string, isAdmin bool) (service.Viewer, error)

type Handler struct {
	ratings  *service.RatingService
	feedback *service.FeedbackService
	viewer   ViewerResolver
}

func New(ratings *service.RatingService, feedback *service.FeedbackService, viewer ViewerResolver) *Handler {
	return &Handler{
		ratings:  ratings,
		feedback: feedback,
		viewer:   viewer,
	}
}

func writeError(c *gin.Context, operation string, err error) {
	switch {
	case validation.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyRated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.New(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func currentUser(c *gin.Context) (string, bool) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return uid, true
}

// CreateRating submits the signed-in user's rating of a session
func (h *Handler) CreateRating(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	var req domain.CreateRatingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rating, err := h.ratings.Create(c.Request.Context(), uid, req)
	if err != nil {
		writeError(c, "create_rating", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}

func (h *Handler) UpdateRating(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	var req domain.UpdateRatingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rating, err := h.ratings.Update(c.Request.Context(), c.Param("id"), uid, req)
	if err != nil {
		writeError(c, "update_rating", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

func (h *Handler) DeleteRating(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.ratings.Remove(c.Request.Context(), c.Param("id"), uid); err != nil {
		writeError(c, "delete_rating", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMine(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	ratings, err := h.ratings.ListByUser(c.Request.Context(), uid)
	if err != nil {
		writeError(c, "list_my_ratings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

// GetMineForSession returns the user's rating of one session, or null
func (h *Handler) GetMineForSession(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	rating, err := h.ratings.GetForUserSession(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		writeError(c, "get_session_rating", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

func (h *Handler) ListApprovedForSession(c *gin.Context) {
	ratings, err := h.ratings.ListApprovedForSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "list_session_ratings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

// ListFeedback serves the feedback screen for admins and speakers
func (h *Handler) ListFeedback(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	filter, err := service.ParseFilter(c.Query("filter"))
	if err != nil {
		writeError(c, "list_feedback", err)
		return
	}

	viewer, err := h.viewer(c.Request.Context(), uid, auth.IsAdmin(c))
	if err != nil {
		writeError(c, "list_feedback", err)
		return
	}

	ratings, err := h.feedback.List(c.Request.Context(), viewer, filter)
	if err != nil {
		writeError(c, "list_feedback", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *Handler) ListPending(c *gin.Context) {
	ratings, err := h.ratings.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, "list_pending_ratings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *Handler) ListAll(c *gin.Context) {
	ratings, err := h.ratings.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, "list_all_ratings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

func (h *Handler) Moderate(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}

	var req domain.ModerateRatingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rating, err := h.ratings.Moderate(c.Request.Context(), c.Param("id"), uid, req)
	if err != nil {
		writeError(c, "moderate_rating", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}
