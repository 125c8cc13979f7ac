// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/app/middleware"
	businessflow "github.com/metalmind-app/metalmind/business_flow"
)

// QuoteHandlerInterface defines the contract for quote handlers
type QuoteHandlerInterface interface {
	SaveQuote(c fiber.Ctx) error
	ListQuotes(c fiber.Ctx) error
	ExportQuotes(c fiber.Ctx) error
}

// QuoteHandler handles quote persistence HTTP requests
type QuoteHandler struct {
	quoteFlow businessflow.QuoteFlow
	validator *validator.Validate
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteFlow businessflow.QuoteFlow) *QuoteHandler {
	return &QuoteHandler{
		quoteFlow: quoteFlow,
		validator: validator.New(),
	}
}

// SaveQuote persists a calculated quote for the authenticated user
// @Summary Save quote
// @Description Freeze a calculated quote snapshot bound to the authenticated user
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body dto.SaveQuoteRequest true "Quote snapshot"
// @Success 200 {object} dto.SaveQuoteResponse "Quote saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/quotes/save [post]
func (h *QuoteHandler) SaveQuote(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == 0 {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.SaveQuoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", collectValidationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.quoteFlow.SaveQuote(createRequestContext(c, "/api/quotes/save"), userID, &req, metadata)
	if err != nil {
		if businessflow.IsClientNameRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Client name is required", dto.ErrorClientNameRequired, nil)
		}
		if businessflow.IsProjectNameRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Project name is required", dto.ErrorProjectNameRequired, nil)
		}

		log.Println("Quote save failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Quote could not be saved", "QUOTE_SAVE_FAILED", nil)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// ListQuotes returns the authenticated user's saved quotes
// @Summary List quotes
// @Description Saved quotes for the authenticated user, newest first
// @Tags Quotes
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.ListQuotesResponse "Saved quotes"
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/quotes [get]
func (h *QuoteHandler) ListQuotes(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == 0 {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	result, err := h.quoteFlow.ListQuotes(createRequestContext(c, "/api/quotes"), userID, limit, offset)
	if err != nil {
		log.Println("Quote listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Quotes could not be retrieved", "QUOTE_LIST_FAILED", nil)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// ExportQuotes streams the authenticated user's quotes as an xlsx workbook
// @Summary Export quotes
// @Description Download the authenticated user's saved quotes as an Excel workbook
// @Tags Quotes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Workbook"
// @Failure 401 {object} dto.APIResponse "Authentication required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/quotes/export [get]
func (h *QuoteHandler) ExportQuotes(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == 0 {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	content, filename, err := h.quoteFlow.ExportQuotes(createRequestContext(c, "/api/quotes/export"), userID)
	if err != nil {
		log.Println("Quote export failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Quotes could not be exported", "QUOTE_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(content)
}

func parseQueryInt(c fiber.Ctx, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
