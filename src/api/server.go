// Package api exposes the verification pipeline over HTTP.
package api

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/trustlens/trustlens/src/config"
	"github.com/trustlens/trustlens/src/factcheck/report"
	"github.com/trustlens/trustlens/src/factcheck/types"
)

// Reporter is the one pipeline operation the API needs.
type Reporter interface {
	Generate(ctx context.Context, req report.Request) (types.ReliabilityReport, error)
}

func New(cfg config.Config, reporter Reporter) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	for _, o := range cfg.CORSOrigins {
		// Credentials combined with a wildcard origin is rejected by the
		// cors middleware.
		if o == "*" {
			corsCfg.AllowOrigins = nil
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
			break
		}
	}
	g.Use(cors.New(corsCfg))

	g.GET("/healthz", health)

	v1 := g.Group("/v1")
	if cfg.JWTSecret != "" {
		v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
	}
	v1.POST("/verify", verifyHandler(reporter))

	return g
}
