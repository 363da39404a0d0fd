package handler

import (
	"errors"
	"strconv"

	"go-consign-pos/internal/repository"
	"go-consign-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	logRepo repository.ActivityLogRepository
}

func NewDashboardHandler(s service.DashboardService, logRepo repository.ActivityLogRepository) *DashboardHandler {
	return &DashboardHandler{service: s, logRepo: logRepo}
}

// GetStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetSalesTrend returns zero-filled revenue/profit buckets for charts
// GET /api/v1/dashboard/trend?period=daily|weekly|monthly
func (h *DashboardHandler) GetSalesTrend(c *fiber.Ctx) error {
	period := c.Query("period", service.TrendDaily)

	points, err := h.service.GetSalesTrend(period)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTrendPeriod) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales trend"})
	}

	return c.JSON(fiber.Map{
		"period": period,
		"data":   points,
	})
}

// GetActivityLog returns the most recent audit entries
// GET /api/v1/dashboard/activity?limit=20
func (h *DashboardHandler) GetActivityLog(c *fiber.Ctx) error {
	limitStr := c.Query("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, err := h.logRepo.FindRecent(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch activity log"})
	}

	return c.JSON(fiber.Map{
		"data":  entries,
		"total": len(entries),
	})
}
