package handler

import (
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.CheckoutService
}

func NewTransactionHandler(s service.CheckoutService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// CreateTransaction handles POST /transactions — the checkout operation.
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var in service.CheckoutInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&in); len(errs) > 0 {
		return validationError(c, errs[0].FailedField, errs[0].Tag)
	}
	for _, item := range in.Items {
		if errs := validator.ValidateStruct(&item); len(errs) > 0 {
			return validationError(c, errs[0].FailedField, errs[0].Tag)
		}
	}

	transaction, err := h.service.Checkout(c.Context(), middleware.MerchantID(c), middleware.ActorID(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction created", "data": transaction})
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	var p repository.Pagination
	if err := c.QueryParser(&p); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}

	var outletID *uuid.UUID
	if raw := c.Query("outlet_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid outlet ID"})
		}
		outletID = &id
	}

	transactions, meta, err := h.service.ListTransactions(middleware.MerchantID(c), outletID, p)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"data": transactions, "meta": meta})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.service.GetTransaction(middleware.MerchantID(c), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(transaction)
}
