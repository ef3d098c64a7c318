package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gretellmoreno/bellagenda-api/internal/cache"
	"github.com/gretellmoreno/bellagenda-api/internal/config"
	dbpkg "github.com/gretellmoreno/bellagenda-api/internal/db"
	"github.com/gretellmoreno/bellagenda-api/internal/notify"
	"github.com/gretellmoreno/bellagenda-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	c := cache.New(cfg)

	reminders := notify.NewReminderService(db, c, cfg)
	reminders.StartScheduler()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, c)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
