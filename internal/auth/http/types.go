package http

import "github.com/cloudnative-denmark/conference-companion/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type providerRequest struct {
	Token string `json:"token"`
}
