package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/cloudnative-denmark/conference-companion/internal/api/http"
	"github.com/cloudnative-denmark/conference-companion/internal/api/http/middleware"
	"github.com/cloudnative-denmark/conference-companion/internal/api/http/routes"
	authmw "github.com/cloudnative-denmark/conference-companion/internal/auth/middleware"
	"github.com/cloudnative-denmark/conference-companion/internal/metrics"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	App         *App
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.App.Config.Server.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.App.Redis, dep.App.Schedule)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	var verifier authmw.TokenVerifier
	if dep.App.Firebase != nil {
		verifier = dep.App.Firebase.Auth
	}

	routes.RegisterV1(r, routes.V1Deps{
		Formatter: dep.App.Formatter,
		Schedule:  dep.App.Schedule,
		Auth:      dep.App.Auth,
		Ratings:   dep.App.Ratings,
		Feedback:  dep.App.Feedback,
		Catalog:   dep.App.Catalog,
		Verifier:  verifier,
	})

	return r
}
