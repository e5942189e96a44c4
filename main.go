package main

import (
	"log"
	"posts/client"
	"posts/config"
	"posts/db"
	"posts/handlers"
	"posts/metrics"
	"posts/models"
	"posts/utils"
	"posts/web"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	db.Init()
	models.Init()

	router := setupRouter()
	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}

func setupRouter() *gin.Engine {
	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	if config.METRICS {
		router.Use(metrics.Middleware())
		router.GET("/metrics", metrics.Handler())
	}
	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		// autotls terminates TLS itself, so HSTS only makes sense then
		STSSeconds:           stsSeconds(),
		STSIncludeSubdomains: config.TLS_DOMAINS != "",
	}))
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if origins := config.CORSOrigins(); len(origins) == 0 || origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/posts/events"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler())

	router.GET("/health", handlers.Health)
	// Posts resource
	handlers.RegisterPostRoutes(router.Group("/api"))
	// Browser view, talks to the resource above over HTTP
	web.New(client.NewAPI(config.APIBaseURL(), nil), config.SESSION_KEY).Register(router)

	return router
}

func stsSeconds() int64 {
	if config.TLS_DOMAINS == "" {
		return 0
	}
	return 31536000
}
