package handler

import (
	"errors"
	"fmt"
	"path/filepath"

	"go-consign-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BoxOrderHandler struct {
	orderService service.BoxOrderService
	uploadDir    string
}

func NewBoxOrderHandler(orderService service.BoxOrderService, uploadDir string) *BoxOrderHandler {
	return &BoxOrderHandler{orderService: orderService, uploadDir: uploadDir}
}

// CreateOrder handles box order creation
// POST /api/v1/box-orders
func (h *BoxOrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateBoxOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	order, err := h.orderService.CreateOrder(&req, operatorID.(string))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Box order created",
		"data":    order,
	})
}

// GetOrder returns one box order with its items
// GET /api/v1/box-orders/:id
func (h *BoxOrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orderService.GetOrder(orderID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": order})
}

// TodayOrders lists today's pickups plus paid orders
// GET /api/v1/box-orders/today
func (h *BoxOrderHandler) TodayOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.TodayOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":  orders,
		"total": len(orders),
	})
}

// UpcomingOrders lists future pending orders
// GET /api/v1/box-orders/upcoming
func (h *BoxOrderHandler) UpcomingOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.UpcomingOrders()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":  orders,
		"total": len(orders),
	})
}

// UpdateStatus moves an order to paid or completed
// PATCH /api/v1/box-orders/:id/status
func (h *BoxOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	order, err := h.orderService.UpdateStatus(orderID, body.Status, operatorID.(string))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoxOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidOrderStatus),
			errors.Is(err, service.ErrOrderAlreadyCancelled):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Box order status updated",
		"data":    order,
	})
}

// CancelOrder cancels an order with a mandatory reason
// POST /api/v1/box-orders/:id/cancel
func (h *BoxOrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	order, err := h.orderService.CancelWithReason(orderID, body.Reason, operatorID.(string))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoxOrderNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrCompletedOrderCancel),
			errors.Is(err, service.ErrOrderAlreadyCancelled):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Box order cancelled",
		"data":    order,
	})
}

// UploadPaymentProof attaches a payment proof image to an order
// POST /api/v1/box-orders/:id/payment-proof
func (h *BoxOrderHandler) UploadPaymentProof(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	file, err := c.FormFile("proof")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing 'proof' file"})
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".pdf" {
		return c.Status(400).JSON(fiber.Map{"error": "Only jpg, jpeg, png or pdf files are accepted"})
	}

	fileName := fmt.Sprintf("proof_%s%s", orderID, ext)
	dest := filepath.Join(h.uploadDir, fileName)
	if err := c.SaveFile(file, dest); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save file"})
	}

	order, err := h.orderService.AttachPaymentProof(orderID, fileName, operatorID.(string))
	if err != nil {
		if errors.Is(err, service.ErrBoxOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Payment proof uploaded",
		"data":    order,
	})
}

// DownloadReceipt generates and serves the order's PDF receipt
// GET /api/v1/box-orders/:id/receipt
func (h *BoxOrderHandler) DownloadReceipt(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	path, err := h.orderService.GenerateReceipt(orderID)
	if err != nil {
		if errors.Is(err, service.ErrBoxOrderNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Download(path)
}
