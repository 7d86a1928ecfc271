package middlewares

import (
	"strings"
	"time"

	"github.com/bqtran/filevault/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORSMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	allowed := make([]string, 0)
	for _, domain := range strings.Split(cfg.CORS.AllowDomains, ",") {
		domain = strings.TrimSpace(domain)
		if domain != "" {
			allowed = append(allowed, domain)
		}
	}

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowed) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowed
	}

	return cors.New(corsConfig)
}
