package ui

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"adpulse/adapters/feed"
	"adpulse/adapters/stats/creative"
	"adpulse/domain"
	"adpulse/domain/core"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ---- forecasting ----

type forecastRequest struct {
	CampaignID string         `json:"campaign_id"`
	Metric     string         `json:"metric" binding:"required"`
	Horizon    int            `json:"horizon" binding:"required"`
	Points     []pointPayload `json:"points"`
}

type pointPayload struct {
	Date  string  `json:"date" binding:"required"`
	Value float64 `json:"value"`
}

func (s *Server) handleForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metric, err := domain.ParseMetric(req.Metric)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points := make([]domain.SeriesPoint, 0, len(req.Points))
	for _, p := range req.Points {
		date, err := parseDay(p.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		points = append(points, domain.SeriesPoint{Date: date, Value: p.Value})
	}

	series, err := domain.NewMetricSeries(req.CampaignID, metric, points)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.analytics.Forecast(series, req.Horizon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCampaignForecasts(c *gin.Context) {
	horizon := queryInt(c, "horizon", 7)
	days := queryInt(c, "days", 90)

	var metrics []domain.Metric
	if raw := c.Query("metrics"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			metric, err := domain.ParseMetric(strings.TrimSpace(name))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			metrics = append(metrics, metric)
		}
	}

	results, err := s.analytics.CampaignForecasts(c.Request.Context(), c.Param("id"), metrics, horizon, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forecasts": results})
}

// ---- A/B testing ----

type evaluateRequest struct {
	Control         domain.ProportionSample `json:"control"`
	Treatment       domain.ProportionSample `json:"treatment"`
	ConfidenceLevel float64                 `json:"confidence_level"`
}

// verdictResponse mirrors the domain verdict but keeps the payload valid
// JSON when the relative uplift is unbounded (zero control rate).
type verdictResponse struct {
	domain.SignificanceVerdict
	RelativeUplift          *float64 `json:"relative_uplift"`
	RelativeUpliftUnbounded bool     `json:"relative_uplift_unbounded,omitempty"`
}

func newVerdictResponse(v domain.SignificanceVerdict) verdictResponse {
	resp := verdictResponse{SignificanceVerdict: v}
	if math.IsInf(v.RelativeUplift, 1) {
		resp.RelativeUpliftUnbounded = true
	} else {
		uplift := v.RelativeUplift
		resp.RelativeUplift = &uplift
	}
	return resp
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level := domain.ConfidenceLevel(req.ConfidenceLevel)
	if req.ConfidenceLevel == 0 {
		level = domain.Confidence95
	}

	verdict, err := s.analytics.EvaluateABTest(req.Control, req.Treatment, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newVerdictResponse(verdict))
}

type sampleSizeRequest struct {
	BaselineRate            float64 `json:"baseline_rate"`
	MinimumDetectableEffect float64 `json:"minimum_detectable_effect"`
	Power                   float64 `json:"power"`
	ConfidenceLevel         float64 `json:"confidence_level"`
}

func (s *Server) handleSampleSize(c *gin.Context) {
	var req sampleSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Power == 0 {
		req.Power = 0.8
	}
	level := domain.ConfidenceLevel(req.ConfidenceLevel)
	if req.ConfidenceLevel == 0 {
		level = domain.Confidence95
	}

	size, err := s.analytics.RequiredSampleSize(req.BaselineRate, req.MinimumDetectableEffect, req.Power, level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"required_sample_size_per_variant": size})
}

func (s *Server) handleCreativePlan(c *gin.Context) {
	var req creative.Inputs
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := s.analytics.PlanCreativeTest(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ---- alert routing ----

type routeRequest struct {
	UserID    string                `json:"user_id"`
	Email     string                `json:"email" binding:"required"`
	Anomalies []domain.AnomalyEvent `json:"anomalies"`
}

func (s *Server) handleRouteAlerts(c *gin.Context) {
	var req routeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := s.router.Route(c.Request.Context(), req.UserID, req.Email, req.Anomalies, s.alertCfg)
	c.JSON(http.StatusOK, report)
}

// handleIngestAlerts accepts a raw detector payload, tolerant of envelope
// variations, and routes the parsed events.
func (s *Server) handleIngestAlerts(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := feed.ParseEvents(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := s.router.Route(c.Request.Context(), c.Query("user_id"), email, events, s.alertCfg)
	c.JSON(http.StatusOK, report)
}

// ---- helpers ----

func respondError(c *gin.Context, err error) {
	switch {
	case core.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseDay(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
