package bootstrap

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudnative-denmark/conference-companion/config"
)

func SetGinMode(cfg *config.Config) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
}
