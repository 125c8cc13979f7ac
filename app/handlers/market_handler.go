// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/metalmind-app/metalmind/app/dto"
	businessflow "github.com/metalmind-app/metalmind/business_flow"
)

// MarketHandlerInterface defines the contract for market data handlers
type MarketHandlerInterface interface {
	ListMaterials(c fiber.Ctx) error
	USDRate(c fiber.Ctx) error
	UpdatePrice(c fiber.Ctx) error
}

// MarketHandler handles market data HTTP requests
type MarketHandler struct {
	marketFlow businessflow.MarketFlow
	validator  *validator.Validate
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(marketFlow businessflow.MarketFlow) *MarketHandler {
	return &MarketHandler{
		marketFlow: marketFlow,
		validator:  validator.New(),
	}
}

// ListMaterials returns the commodity price board grouped by category
// @Summary Material price board
// @Description Current commodity prices grouped by category, cheapest first
// @Tags Market
// @Produce json
// @Success 200 {object} dto.GroupedMaterials "Grouped material prices"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/market/materials [get]
func (h *MarketHandler) ListMaterials(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	grouped, err := h.marketFlow.ListMaterials(createRequestContext(c, "/api/market/materials"), metadata)
	if err != nil {
		log.Println("Failed to list materials", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve material prices", "MATERIALS_FETCH_FAILED", nil)
	}

	// The dashboard consumes the bare grouped map, not the APIResponse envelope
	return c.Status(fiber.StatusOK).JSON(grouped)
}

// USDRate returns the current USD/TRY rate with its provenance
// @Summary USD/TRY rate
// @Description Live USD/TRY rate; answers 200 with the cached or fallback rate when the provider is down
// @Tags Market
// @Produce json
// @Success 200 {object} dto.USDRateResponse "Rate with source flag"
// @Router /api/rates/usd [get]
func (h *MarketHandler) USDRate(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	resp := h.marketFlow.USDRate(createRequestContext(c, "/api/rates/usd"), metadata)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdatePrice writes a corrected price for a single board row
// @Summary Update a material price
// @Description Admin correction of a single board row; the simulator keeps moving the new value
// @Tags Market
// @Accept json
// @Produce json
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialPriceRequest true "New price"
// @Success 200 {object} dto.UpdateMaterialPriceResponse "Updated row"
// @Failure 400 {object} dto.APIResponse "Invalid ID or price"
// @Failure 404 {object} dto.APIResponse "Material not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/market/materials/{id}/price [put]
func (h *MarketHandler) UpdatePrice(c fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid material ID", "INVALID_MATERIAL_ID", nil)
	}

	var req dto.UpdateMaterialPriceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.marketFlow.SetPrice(createRequestContext(c, "/api/market/materials/:id/price"), uint(id), req.Price, metadata)
	if err != nil {
		if businessflow.IsMaterialNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Material not found", dto.ErrorMaterialNotFound, nil)
		}

		log.Println("Failed to update material price", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update material price", "PRICE_UPDATE_FAILED", nil)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
