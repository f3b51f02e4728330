package controller

import (
	"time"

	"github.com/gofiber/websocket/v2"

	"fieldpulse/analytics"
	"fieldpulse/models"
)

const (
	liveMinInterval = 5 * time.Second
	liveMaxInterval = 5 * time.Minute
)

// HandleLiveMetrics streams freshly recomputed dashboard reports over a
// websocket. Every push is an independent full run of the pipeline, so a
// client always sees metrics consistent with the current record set.
func (dc *DashboardController) HandleLiveMetrics(conn *websocket.Conn) {
	defer conn.Close()

	user, ok := conn.Locals("user").(*models.User)
	if !ok {
		return
	}

	var input struct {
		Agent           string `json:"agent"`
		City            string `json:"city"`
		Period          string `json:"period"`
		StartDate       string `json:"start_date"`
		EndDate         string `json:"end_date"`
		IntervalSeconds int    `json:"interval_seconds"`
	}
	if err := conn.ReadJSON(&input); err != nil {
		dc.Logger.Printf("Error reading live metrics subscription: %v", err)
		return
	}

	filters := MetricsFilters{
		Agent:     defaultFilter(input.Agent),
		City:      defaultFilter(input.City),
		Period:    input.Period,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if filters.Period == "" {
		filters.Period = analytics.PeriodAll
	}
	if !user.IsManager() {
		filters.Agent = user.Email
	}

	interval := time.Duration(input.IntervalSeconds) * time.Second
	if interval < liveMinInterval {
		interval = 30 * time.Second
	}
	if interval > liveMaxInterval {
		interval = liveMaxInterval
	}

	for {
		report, err := dc.liveReport(user, filters)
		if err != nil {
			// DB failure already logged; tell the client and stop.
			_ = conn.WriteJSON(map[string]string{"error": "failed to compute metrics"})
			return
		}

		resp := MetricsResponse{
			Report:                  report,
			QualityByUniqueStorePct: percentages(report.QualityByUniqueStore, report.UniqueStoreCount),
			QualityByVisitPct:       percentages(report.QualityByVisit, report.TotalVisits),
			Filters:                 filters,
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}

		time.Sleep(interval)
	}
}

func (dc *DashboardController) liveReport(user *models.User, filters MetricsFilters) (analytics.Report, error) {
	query := dc.DB
	if !user.IsManager() {
		query = query.Where("user_id = ?", user.ID)
	}

	var visits []models.Visit
	if err := query.Order("created_at ASC").Find(&visits).Error; err != nil {
		dc.Logger.Printf("Failed to fetch visits for live metrics: %v", err)
		return analytics.Report{}, err
	}

	return analytics.Run(models.VisitRecords(visits), filters.Agent, filters.City,
		filters.Period, filters.StartDate, filters.EndDate, time.Now()), nil
}

func defaultFilter(v string) string {
	if v == "" {
		return analytics.FilterAll
	}
	return v
}
