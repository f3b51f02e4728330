package controller

import (
	"github.com/gofiber/fiber/v2"

	"fieldpulse/models"
	"fieldpulse/utils"
)

// GetSummary computes the report for the requested filters and asks the
// configured text-generation service for a narrative write-up. The
// service is an opaque collaborator; the engine output goes out as-is
// and the returned text comes back untouched.
func (dc *DashboardController) GetSummary(c *fiber.Ctx) error {
	if dc.Summarizer == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Summary service is not configured", nil)
	}

	user := c.Locals("user").(*models.User)
	filters := dc.requestedFilters(c, user)

	report, err := dc.computeReport(c, user, filters)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load visit records", err)
	}

	summary, err := dc.Summarizer.Summarize(c.Context(), report)
	if err != nil {
		dc.Logger.Printf("Summary generation failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusBadGateway, "Failed to generate summary", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"summary": summary,
		"filters": filters,
	}))
}
