// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/metalmind-app/metalmind/app/dto"
	businessflow "github.com/metalmind-app/metalmind/business_flow"
)

// CostingHandlerInterface defines the contract for costing handlers
type CostingHandlerInterface interface {
	EstimateCost(c fiber.Ctx) error
}

// CostingHandler handles cost estimation HTTP requests
type CostingHandler struct {
	costingFlow businessflow.CostingFlow
	validator   *validator.Validate
}

// NewCostingHandler creates a new costing handler
func NewCostingHandler(costingFlow businessflow.CostingFlow) *CostingHandler {
	return &CostingHandler{
		costingFlow: costingFlow,
		validator:   validator.New(),
	}
}

// EstimateCost calculates a cost estimate for a sheet-metal or consumable order
// @Summary Cost estimate
// @Description Estimate manufacturing cost; mode "metal" prices by weight, mode "sarf" prices per unit
// @Tags Costing
// @Accept json
// @Produce json
// @Param request body dto.CostEstimateRequest true "Order parameters"
// @Success 200 {object} dto.CostEstimateResponse "Calculated estimate"
// @Failure 400 {object} dto.APIResponse "Missing dimensions or consumable selection"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/calc/cost [post]
func (h *CostingHandler) EstimateCost(c fiber.Ctx) error {
	var req dto.CostEstimateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.costingFlow.EstimateCost(createRequestContext(c, "/api/calc/cost"), &req, metadata)
	if err != nil {
		if businessflow.IsMissingDimensions(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Sheet dimensions are missing", dto.ErrorMissingDimensions, nil)
		}
		if businessflow.IsMissingConsumable(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Consumable selection or quantity is missing", dto.ErrorMissingConsumable, nil)
		}
		if businessflow.IsPriceNotAvailable(err) {
			return errorResponse(c, fiber.StatusBadRequest, "No price recorded for the requested category", dto.ErrorPriceNotAvailable, nil)
		}

		log.Println("Cost estimation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Cost estimation failed", "COST_ESTIMATION_FAILED", nil)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
