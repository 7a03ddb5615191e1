package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudnative-denmark/conference-companion/internal/auth"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/identity"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/middleware"
	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/validation"
)

func writeError(c *gin.Context, operation string, err error) {
	var authErr *domain.AuthError
	switch {
	case validation.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		logging.New(c.Request.Context()).LogError(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// SignIn signs in with email and password and returns the tokens and profile
func (h *Handler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		writeError(c, "sign_in", err)
		return
	}
	c.JSON(http.StatusOK, id)
}

// SignUp registers an account and provisions its profile
func (h *Handler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.authService.SignUp(c.Request.Context(), req)
	if err != nil {
		writeError(c, "sign_up", err)
		return
	}
	c.JSON(http.StatusCreated, id)
}

// SignInWithProvider exchanges a Google id token or GitHub access token
func (h *Handler) SignInWithProvider(c *gin.Context) {
	provider, ok := identity.ParseProviderID(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unsupported provider"})
		return
	}

	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.authService.SignInWithProvider(c.Request.Context(), provider, req.Token)
	if err != nil {
		writeError(c, "sign_in_provider", err)
		return
	}
	c.JSON(http.StatusOK, id)
}

// GetMe returns the current user's identity, profile and admin flag
func (h *Handler) GetMe(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), firebaseUID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		writeError(c, "get_me", err)
		return
	}

	c.JSON(http.StatusOK, domain.Identity{
		User:    domain.User{UID: firebaseUID, Email: c.GetString(middleware.CtxEmail)},
		Profile: profile,
		IsAdmin: auth.IsAdmin(c),
	})
}

// SignOut revokes the user's refresh tokens
func (h *Handler) SignOut(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), firebaseUID); err != nil {
		writeError(c, "sign_out", err)
		return
	}
	c.Status(http.StatusNoContent)
}
