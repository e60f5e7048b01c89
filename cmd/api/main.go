package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/costuraflow/atelier-scheduler/internal/cache"
	"github.com/costuraflow/atelier-scheduler/internal/config"
	dbpkg "github.com/costuraflow/atelier-scheduler/internal/db"
	"github.com/costuraflow/atelier-scheduler/internal/logger"
	"github.com/costuraflow/atelier-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)
	rdb := cache.NewClient(cfg)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
