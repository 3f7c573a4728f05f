package handler

import (
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OpenShiftRequest struct {
	OutletID uuid.UUID `json:"outlet_id" validate:"uuid_required"`
}

type ShiftHandler struct {
	service service.ShiftService
}

func NewShiftHandler(s service.ShiftService) *ShiftHandler {
	return &ShiftHandler{service: s}
}

// OpenShift handles POST /shifts.
func (h *ShiftHandler) OpenShift(c *fiber.Ctx) error {
	var req OpenShiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return validationError(c, errs[0].FailedField, errs[0].Tag)
	}

	shift, err := h.service.Open(c.Context(), middleware.MerchantID(c), middleware.ActorID(c), req.OutletID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Shift opened", "data": shift})
}

// CloseShift handles POST /shifts/:id/close.
func (h *ShiftHandler) CloseShift(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shift ID"})
	}

	shift, err := h.service.Close(c.Context(), middleware.MerchantID(c), middleware.ActorID(c), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shift closed", "data": shift})
}

func (h *ShiftHandler) GetShifts(c *fiber.Ctx) error {
	var outletID *uuid.UUID
	if raw := c.Query("outlet_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid outlet ID"})
		}
		outletID = &id
	}

	shifts, err := h.service.ListShifts(middleware.MerchantID(c), outletID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(shifts)
}

func (h *ShiftHandler) GetShift(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid shift ID"})
	}

	shift, err := h.service.GetShift(middleware.MerchantID(c), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(shift)
}
