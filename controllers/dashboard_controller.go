package controller

import (
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fieldpulse/analytics"
	"fieldpulse/models"
	"fieldpulse/utils"
)

type DashboardController struct {
	DB         *gorm.DB
	Logger     *log.Logger
	Cache      *utils.ReportCache
	Summarizer utils.Summarizer
}

func NewDashboardController(db *gorm.DB, logger *log.Logger, cache *utils.ReportCache, summarizer utils.Summarizer) *DashboardController {
	return &DashboardController{
		DB:         db,
		Logger:     logger,
		Cache:      cache,
		Summarizer: summarizer,
	}
}

// MetricsFilters echoes back the filter set a report was computed for.
type MetricsFilters struct {
	Agent     string `json:"agent"`
	City      string `json:"city"`
	Period    string `json:"period"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// MetricsResponse is the dashboard payload: the engine's report plus the
// presentation-side percentage views of the raw quality counts.
type MetricsResponse struct {
	analytics.Report
	QualityByUniqueStorePct map[string]float64 `json:"qualityByUniqueStorePct"`
	QualityByVisitPct       map[string]float64 `json:"qualityByVisitPct"`
	Filters                 MetricsFilters     `json:"filters"`
}

// GetDashboardMetrics recomputes the full analytics pipeline for the
// requested filter set. Recomputing from scratch on every call is the
// intended design; only the rendered response is cached, briefly.
func (dc *DashboardController) GetDashboardMetrics(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	filters := dc.requestedFilters(c, user)

	cacheKey := ""
	if dc.Cache != nil {
		cacheKey = dc.Cache.Key(user.ID, filters.Agent, filters.City, filters.Period, filters.StartDate, filters.EndDate)
		if payload, ok := dc.Cache.Get(c.Context(), cacheKey); ok {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(payload)
		}
	}

	report, err := dc.computeReport(c, user, filters)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load visit records", err)
	}

	resp := MetricsResponse{
		Report:                  report,
		QualityByUniqueStorePct: percentages(report.QualityByUniqueStore, report.UniqueStoreCount),
		QualityByVisitPct:       percentages(report.QualityByVisit, report.TotalVisits),
		Filters:                 filters,
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to encode metrics", err)
	}
	if dc.Cache != nil {
		dc.Cache.Set(c.Context(), cacheKey, payload)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"agent":        filters.Agent,
		"city":         filters.City,
		"period":       filters.Period,
		"total_visits": report.TotalVisits,
	}).Debug("dashboard metrics computed")

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// requestedFilters reads the filter query params. Agents are pinned to
// their own visits; only managers may look across agents.
func (dc *DashboardController) requestedFilters(c *fiber.Ctx, user *models.User) MetricsFilters {
	filters := MetricsFilters{
		Agent:     c.Query("agent", analytics.FilterAll),
		City:      c.Query("city", analytics.FilterAll),
		Period:    c.Query("period", analytics.PeriodAll),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if !user.IsManager() {
		filters.Agent = user.Email
	}
	return filters
}

// computeReport fetches the caller's visible records and runs the
// pipeline over them.
func (dc *DashboardController) computeReport(c *fiber.Ctx, user *models.User, filters MetricsFilters) (analytics.Report, error) {
	query := dc.DB
	if !user.IsManager() {
		query = query.Where("user_id = ?", user.ID)
	}

	var visits []models.Visit
	if err := query.Order("created_at ASC").Find(&visits).Error; err != nil {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("component", "dashboard")
			scope.SetExtra("user_id", user.ID)
			sentry.CaptureException(err)
		})
		dc.Logger.Printf("Failed to fetch visits for dashboard: %v", err)
		return analytics.Report{}, err
	}

	records := models.VisitRecords(visits)
	return analytics.Run(records, filters.Agent, filters.City, filters.Period,
		filters.StartDate, filters.EndDate, time.Now()), nil
}

// GetAgents lists the distinct agents with recorded visits, for the
// dashboard's agent filter dropdown. Manager only.
func (dc *DashboardController) GetAgents(c *fiber.Ctx) error {
	var agents []string
	if err := dc.DB.Model(&models.Visit{}).
		Distinct("agent").
		Where("agent <> ''").
		Order("agent ASC").
		Pluck("agent", &agents).Error; err != nil {
		dc.Logger.Printf("Failed to list agents: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list agents", err)
	}

	out := make([]fiber.Map, 0, len(agents))
	for _, agent := range agents {
		out = append(out, fiber.Map{
			"agent": agent,
			"name":  analytics.AgentDisplayName(agent),
		})
	}
	return c.JSON(utils.SuccessResponse(out))
}

// percentages renders raw quality counts against a denominator. A zero
// denominator yields 0, never NaN.
func percentages(counts map[string]int, denominator int) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for field, count := range counts {
		if denominator == 0 {
			out[field] = 0
			continue
		}
		out[field] = math.Round(float64(count)/float64(denominator)*1000) / 10
	}
	return out
}
