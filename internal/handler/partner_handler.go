package handler

import (
	"errors"

	"go-consign-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PartnerHandler struct {
	partnerService service.PartnerService
}

func NewPartnerHandler(partnerService service.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// CreatePartner handles partner creation
// POST /api/v1/partners
func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	var req service.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	partner, err := h.partnerService.CreatePartner(&req, operatorID.(string))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Partner created successfully",
		"data":    partner,
	})
}

// UpdatePartner handles partner update
// PUT /api/v1/partners/:id
func (h *PartnerHandler) UpdatePartner(c *fiber.Ctx) error {
	partnerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid partner ID"})
	}

	var req service.PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	partner, err := h.partnerService.UpdatePartner(partnerID, &req, operatorID.(string))
	if err != nil {
		if errors.Is(err, service.ErrPartnerNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Partner updated successfully",
		"data":    partner,
	})
}

// DeletePartner handles soft-deleting a partner
// DELETE /api/v1/partners/:id
func (h *PartnerHandler) DeletePartner(c *fiber.Ctx) error {
	partnerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid partner ID"})
	}

	operatorID := c.Locals("user_id")
	if operatorID == nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.partnerService.DeletePartner(partnerID, operatorID.(string)); err != nil {
		if errors.Is(err, service.ErrPartnerNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Partner deleted successfully"})
}

// GetPartner returns one partner
// GET /api/v1/partners/:id
func (h *PartnerHandler) GetPartner(c *fiber.Ctx) error {
	partnerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid partner ID"})
	}

	partner, err := h.partnerService.GetPartner(partnerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"data": partner})
}

// ListPartners lists partners, optionally active only
// GET /api/v1/partners?active=true
func (h *PartnerHandler) ListPartners(c *fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"

	partners, err := h.partnerService.ListPartners(activeOnly)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"data":  partners,
		"total": len(partners),
	})
}
