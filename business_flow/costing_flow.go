// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/repository"
)

// CostingParams carries the cost model constants. They are injected so
// tests and future tuning do not touch the flow logic.
type CostingParams struct {
	// SteelDensity is kg/dm3 scaled for the mm-based weight formula (7.85)
	SteelDensity float64
	// OverheadMultiplier covers labor and consumables on top of raw material (1.20)
	OverheadMultiplier float64
	// FallbackSheetPrice is the USD/ton basis used when no sheet price is recorded
	FallbackSheetPrice float64
	// SheetTypes are the categories eligible as a sheet-metal price basis
	SheetTypes []string
}

// DefaultCostingParams returns the production cost model constants
func DefaultCostingParams() CostingParams {
	return CostingParams{
		SteelDensity:       7.85,
		OverheadMultiplier: 1.20,
		FallbackSheetPrice: 850,
		SheetTypes:         models.SheetMaterialTypes,
	}
}

// CostingFlow estimates manufacturing costs for sheet metal and consumables
type CostingFlow interface {
	EstimateCost(ctx context.Context, request *dto.CostEstimateRequest, metadata *ClientMetadata) (*dto.CostEstimateResponse, error)
}

// CostingFlowImpl implements the costing business flow
type CostingFlowImpl struct {
	materialRepo repository.MaterialRepository
	params       CostingParams
}

// NewCostingFlow creates a new costing flow instance
func NewCostingFlow(materialRepo repository.MaterialRepository, params CostingParams) CostingFlow {
	return &CostingFlowImpl{
		materialRepo: materialRepo,
		params:       params,
	}
}

// EstimateCost calculates a cost estimate for the requested mode.
// An unrecognized mode returns a zero-valued estimate rather than an
// error; the dashboard client relies on that.
func (cf *CostingFlowImpl) EstimateCost(ctx context.Context, request *dto.CostEstimateRequest, metadata *ClientMetadata) (*dto.CostEstimateResponse, error) {
	var cost, weight float64
	var info string

	switch request.Mode {
	case dto.CostingModeMetal:
		var err error
		cost, weight, info, err = cf.estimateSheetMetal(ctx, request)
		if err != nil {
			return nil, err
		}
	case dto.CostingModeSarf:
		var err error
		cost, info, err = cf.estimateConsumable(ctx, request)
		if err != nil {
			return nil, err
		}
	}

	return &dto.CostEstimateResponse{
		Success: true,
		Cost:    fmt.Sprintf("%.2f", cost),
		Weight:  fmt.Sprintf("%.3f", weight),
		Info:    info,
	}, nil
}

// estimateSheetMetal prices a sheet order by weight. The unit price basis
// is the cheapest recorded sheet category; when the market table has no
// sheet rows at all, the fallback basis keeps quoting possible.
func (cf *CostingFlowImpl) estimateSheetMetal(ctx context.Context, request *dto.CostEstimateRequest) (cost, weight float64, info string, err error) {
	acinim := floatValue(request.Acinim)
	kalinlik := floatValue(request.Kalinlik)
	boy := floatValue(request.Boy)

	if acinim <= 0 || kalinlik <= 0 || boy <= 0 {
		return 0, 0, "", NewBusinessError(dto.ErrorMissingDimensions, "Sheet dimensions are missing", ErrMissingDimensions)
	}

	adet := 0
	if request.Adet != nil {
		adet = *request.Adet
	}
	if adet < 1 {
		return 0, 0, "", NewBusinessError(dto.ErrorMissingDimensions, "Quantity is missing", ErrMissingDimensions)
	}

	minPrice, err := cf.materialRepo.MinPriceByTypes(ctx, cf.params.SheetTypes)
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to read sheet prices: %w", err)
	}

	basis := cf.params.FallbackSheetPrice
	if minPrice != nil {
		basis = *minPrice
	}

	// Dimensions are mm, density maps mm3 to grams, so divide by 1e6 for kg
	weight = (acinim * kalinlik * boy * cf.params.SteelDensity * float64(adet)) / 1_000_000
	cost = (weight * (basis / 1000)) * cf.params.OverheadMultiplier
	info = fmt.Sprintf("%.1f kg • Sac", weight)

	return cost, weight, info, nil
}

// estimateConsumable prices a consumable order per unit. A category with
// no recorded price is rejected instead of producing a free quote.
func (cf *CostingFlowImpl) estimateConsumable(ctx context.Context, request *dto.CostEstimateRequest) (cost float64, info string, err error) {
	sarfType := strings.TrimSpace(request.SarfType)
	qty := floatValue(request.SarfQty)

	if sarfType == "" || qty <= 0 {
		return 0, "", NewBusinessError(dto.ErrorMissingConsumable, "Consumable type or quantity is missing", ErrMissingConsumable)
	}

	minPrice, err := cf.materialRepo.MinPriceByTypes(ctx, []string{sarfType})
	if err != nil {
		return 0, "", fmt.Errorf("failed to read consumable price: %w", err)
	}
	if minPrice == nil {
		return 0, "", NewBusinessErrorf(dto.ErrorPriceNotAvailable, "No price recorded for category %q", ErrPriceNotAvailable, sarfType)
	}

	cost = *minPrice * qty
	info = strconv.FormatFloat(qty, 'f', -1, 64) + " Adet/Kg • " + strings.ToUpper(sarfType)

	return cost, info, nil
}

func floatValue(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
