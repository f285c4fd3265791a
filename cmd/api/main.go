package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/carelinkhq/care-portal/internal/cache"
	"github.com/carelinkhq/care-portal/internal/config"
	dbpkg "github.com/carelinkhq/care-portal/internal/db"
	"github.com/carelinkhq/care-portal/internal/middleware"
	"github.com/carelinkhq/care-portal/internal/routes"
)

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	cc := cache.New(cfg.RedisURL)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, cc)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
