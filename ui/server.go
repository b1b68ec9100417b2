package ui

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"adpulse/app"
)

// Server is the HTTP surface of the analytics engine. It exposes the pure
// computations and the alert router as JSON endpoints; campaign CRUD, auth
// and billing live in other services.
type Server struct {
	analytics *app.AnalyticsService
	router    *app.AlertRouter
	alertCfg  app.AlertConfig
	engine    *gin.Engine
}

// NewServer wires the routes onto a gin engine.
func NewServer(analytics *app.AnalyticsService, router *app.AlertRouter, alertCfg app.AlertConfig) *Server {
	s := &Server{
		analytics: analytics,
		router:    router,
		alertCfg:  alertCfg,
		engine:    gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api/v1")
	api.POST("/forecast", s.handleForecast)
	api.GET("/campaigns/:id/forecasts", s.handleCampaignForecasts)
	api.POST("/abtest/evaluate", s.handleEvaluate)
	api.POST("/abtest/sample-size", s.handleSampleSize)
	api.POST("/creative/plan", s.handleCreativePlan)
	api.POST("/alerts/route", s.handleRouteAlerts)
	api.POST("/alerts/ingest", s.handleIngestAlerts)
}

// Run blocks serving on addr.
func (s *Server) Run(addr string) error {
	log.Printf("[ui] serving on %s", addr)
	return s.engine.Run(addr)
}

// requestLogger logs one line per request with latency and status.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[ui] %s %s status=%d latency=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
