package http

import "github.com/gin-gonic/gin"

// Register mounts the sign-in routes on public and the session routes on authed.
func (h *Handler) Register(public *gin.RouterGroup, authed *gin.RouterGroup) {
	public.POST("/auth/sign-in", h.SignIn)
	public.POST("/auth/sign-up", h.SignUp)
	public.POST("/auth/providers/:provider", h.SignInWithProvider)

	h.RegisterProfile(authed)
	authed.POST("/auth/sign-out", h.SignOut)
}

// RegisterProfile mounts only GET /me. It is all that works without an
// identity backend.
func (h *Handler) RegisterProfile(authed *gin.RouterGroup) {
	authed.GET("/me", h.GetMe)
}
