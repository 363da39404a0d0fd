package handler

import (
	"errors"
	"time"

	"go-consign-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShopHandler struct {
	shopService service.ShopService
}

func NewShopHandler(shopService service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

type openSessionRequest struct {
	StartCash decimal.Decimal `json:"start_cash"`
}

type closeSessionBody struct {
	ActualCash decimal.Decimal     `json:"actual_cash"`
	Items      []service.ItemCount `json:"items"`
}

// OpenSession handles opening the daily shop session
// POST /api/v1/sessions/open
func (h *ShopHandler) OpenSession(c *fiber.Ctx) error {
	var req openSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	operatorUUID, err := uuid.Parse(operatorID.(string))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	session, err := h.shopService.OpenSession(operatorUUID, req.StartCash)
	if err != nil {
		if errors.Is(err, service.ErrActiveSessionExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Shop session opened",
		"data":    session,
	})
}

// AddItem registers a consignment item into an open session
// POST /api/v1/sessions/:id/items
func (h *ShopHandler) AddItem(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	var req service.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.ShopSessionID = sessionID

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	item, err := h.shopService.AddItem(&req, operatorID.(string))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSessionNotOpen):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Consignment item added",
		"data":    item,
	})
}

// CloseSession reconciles and closes a session
// POST /api/v1/sessions/:id/close
func (h *ShopHandler) CloseSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	var body closeSessionBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	report, err := h.shopService.CloseSession(sessionID, &service.CloseSessionRequest{
		ActualCash: body.ActualCash,
		Items:      body.Items,
	}, operatorID.(string))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrSessionNotOpen):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Shop session closed",
		"data":    report,
	})
}

// GetActiveSession returns the caller's open session, if any
// GET /api/v1/sessions/active
func (h *ShopHandler) GetActiveSession(c *fiber.Ctx) error {
	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}
	operatorUUID, err := uuid.Parse(operatorID.(string))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	session, err := h.shopService.GetActiveSession(operatorUUID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": session})
}

// GetSession returns one session by ID
// GET /api/v1/sessions/:id
func (h *ShopHandler) GetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := h.shopService.GetSessionByID(sessionID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": session})
}

// GetSessionItems lists the consignment items of a session
// GET /api/v1/sessions/:id/items
func (h *ShopHandler) GetSessionItems(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	items, err := h.shopService.GetSessionItems(sessionID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":  items,
		"total": len(items),
	})
}

// ListConsignments lists consignment history across sessions
// GET /api/v1/consignments?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
// Both dates default to today.
func (h *ShopHandler) ListConsignments(c *fiber.Ctx) error {
	now := time.Now()
	today := now.Format("2006-01-02")

	start, err := time.Parse("2006-01-02", c.Query("start_date", today))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start_date format, use YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date", today))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end_date format, use YYYY-MM-DD"})
	}
	// inclusive end of day
	end = end.AddDate(0, 0, 1).Add(-time.Second)

	items, err := h.shopService.GetItemsByDateRange(start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":       items,
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
		"total":      len(items),
	})
}

// ListSessions lists all sessions, newest first
// GET /api/v1/sessions
func (h *ShopHandler) ListSessions(c *fiber.Ctx) error {
	sessions, err := h.shopService.ListSessions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":  sessions,
		"total": len(sessions),
	})
}
