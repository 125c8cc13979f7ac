// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/metalmind-app/metalmind/app/dto"
	businessflow "github.com/metalmind-app/metalmind/business_flow"
)

// FinanceHandlerInterface defines the contract for finance handlers
type FinanceHandlerInterface interface {
	Analyze(c fiber.Ctx) error
}

// FinanceHandler handles financial analysis HTTP requests
type FinanceHandler struct {
	financeFlow businessflow.FinanceFlow
	validator   *validator.Validate
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeFlow businessflow.FinanceFlow) *FinanceHandler {
	return &FinanceHandler{
		financeFlow: financeFlow,
		validator:   validator.New(),
	}
}

// Analyze runs the financial risk and logistics analysis
// @Summary Financial risk analysis
// @Description Profit margins, FX risk projection, logistics cost, and delivery date for an order
// @Tags Finance
// @Accept json
// @Produce json
// @Param request body dto.FinanceAnalysisRequest true "Analysis parameters"
// @Success 200 {object} dto.FinanceAnalysisResponse "Analysis result"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Security BearerAuth
// @Router /api/finance/analyze [post]
func (h *FinanceHandler) Analyze(c fiber.Ctx) error {
	var req dto.FinanceAnalysisRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result := h.financeFlow.Analyze(createRequestContext(c, "/api/finance/analyze"), &req, metadata)
	return c.Status(fiber.StatusOK).JSON(result)
}
