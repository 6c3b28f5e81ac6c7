package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	handlers "github.com/gyengus/uptime-monitor/api"
	"github.com/gyengus/uptime-monitor/internal"
	"github.com/gyengus/uptime-monitor/internal/checker"
	"github.com/gyengus/uptime-monitor/internal/registry"
	"github.com/gyengus/uptime-monitor/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	var quiet = flag.Bool("quiet", false, "Disable all logging output")
	var verbose = flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	configPath := os.Getenv("UPTIME_CONFIG")

	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if *quiet {
		cfg.Logging.Level = "panic"
	} else if *verbose {
		cfg.Logging.Level = "debug"
	}

	logger := setupLogger(cfg.Logging)
	if !*quiet {
		logger.Info("Starting uptime monitor")
	}

	store, err := storage.NewStore(cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage")
	}
	defer store.Close()

	reg := registry.NewRegistry(store, logger)
	if err := reg.Restore(); err != nil {
		logger.WithError(err).Warn("Failed to restore services")
	}

	monitor := checker.NewMonitor(reg, logger, cfg.Monitor)
	monitor.Start()
	defer monitor.Close()

	router := setupRouter(cfg, reg, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting HTTP server")

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func setupLogger(cfg internal.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.WithError(err).Warn("Failed to open log file, using stdout")
		} else {
			logger.SetOutput(file)
		}
	}

	return logger
}

// Initializes the Gin router with all routes and middleware.
func setupRouter(cfg *internal.Config, reg *registry.Registry, logger *logrus.Logger) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(logger.Writer()))

	corsConfig := cors.Config{
		AllowOrigins: cfg.Server.CORS.AllowOrigins,
		AllowMethods: cfg.Server.CORS.AllowMethods,
		AllowHeaders: cfg.Server.CORS.AllowHeaders,
		MaxAge:       12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	h := handlers.New(reg, logger)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/services", h.ListServices)
		api.POST("/services", h.CreateService)
		api.DELETE("/services/:id", h.DeleteService)
	}

	router.LoadHTMLGlob("web/templates/*")
	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"title": "Uptime Monitor",
		})
	})

	return router
}
