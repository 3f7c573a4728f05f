package handler

import (
	"time"

	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

// CreateAdjustment handles POST /stock/adjustments — manual stock mutation.
func (h *StockHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in service.AdjustmentInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&in); len(errs) > 0 {
		return validationError(c, errs[0].FailedField, errs[0].Tag)
	}

	change, err := h.service.Adjust(c.Context(), middleware.MerchantID(c), middleware.ActorID(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Stock adjusted", "data": change})
}

// GetLogs handles GET /stock/logs — the append-only ledger stream, filterable
// by product and time range.
func (h *StockHandler) GetLogs(c *fiber.Ctx) error {
	var p repository.Pagination
	if err := c.QueryParser(&p); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	var filter repository.StockLogFilter
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		filter.ProductID = &id
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'from' timestamp, use RFC3339"})
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid 'to' timestamp, use RFC3339"})
		}
		filter.To = &to
	}

	logs, meta, err := h.service.ListLogs(middleware.MerchantID(c), filter, p)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"data": logs, "meta": meta})
}
