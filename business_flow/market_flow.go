// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"

	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/app/services"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/repository"
	"github.com/metalmind-app/metalmind/utils"
)

// MarketFlow exposes the commodity price board and the USD/TRY rate
type MarketFlow interface {
	ListMaterials(ctx context.Context, metadata *ClientMetadata) (dto.GroupedMaterials, error)
	USDRate(ctx context.Context, metadata *ClientMetadata) *dto.USDRateResponse
	SetPrice(ctx context.Context, materialID uint, price float64, metadata *ClientMetadata) (*dto.UpdateMaterialPriceResponse, error)
}

// MarketFlowImpl implements the market business flow
type MarketFlowImpl struct {
	materialRepo repository.MaterialRepository
	rateService  services.ExchangeRateService
}

// NewMarketFlow creates a new market flow instance
func NewMarketFlow(materialRepo repository.MaterialRepository, rateService services.ExchangeRateService) MarketFlow {
	return &MarketFlowImpl{
		materialRepo: materialRepo,
		rateService:  rateService,
	}
}

// ListMaterials returns the price board grouped by category, cheapest row
// first within each category.
func (mf *MarketFlowImpl) ListMaterials(ctx context.Context, metadata *ClientMetadata) (dto.GroupedMaterials, error) {
	materials, err := mf.materialRepo.ByFilter(ctx, models.MaterialFilter{}, "type ASC, price ASC", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	grouped := make(dto.GroupedMaterials)
	for _, m := range materials {
		location := ""
		if m.Location != nil {
			location = *m.Location
		}
		grouped[m.Type] = append(grouped[m.Type], dto.MaterialEntry{
			Name:     m.Name,
			Location: location,
			Price:    m.Price,
		})
	}

	return grouped, nil
}

// SetPrice writes a corrected price for a single board row. The simulator
// perturbs whatever value is current, so a manual correction takes effect
// from the next tick on.
func (mf *MarketFlowImpl) SetPrice(ctx context.Context, materialID uint, price float64, metadata *ClientMetadata) (*dto.UpdateMaterialPriceResponse, error) {
	material, err := mf.materialRepo.ByID(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("failed to load material %d: %w", materialID, err)
	}
	if material == nil {
		return nil, NewBusinessError(dto.ErrorMaterialNotFound, "Material not found", ErrMaterialNotFound)
	}

	if err := mf.materialRepo.UpdatePrice(ctx, materialID, price, utils.UTCNow()); err != nil {
		return nil, fmt.Errorf("failed to update price for material %d: %w", materialID, err)
	}

	return &dto.UpdateMaterialPriceResponse{
		Success: true,
		Message: "Price updated",
		Name:    material.Name,
		Price:   price,
	}, nil
}

// USDRate returns the current USD/TRY quote. A degraded rate still
// answers with 200; the source field tells the client it is stale.
func (mf *MarketFlowImpl) USDRate(ctx context.Context, metadata *ClientMetadata) *dto.USDRateResponse {
	quote := mf.rateService.USDTRY(ctx)
	return &dto.USDRateResponse{
		Success: quote.Source == services.RateSourceLive,
		USDTRY:  fmt.Sprintf("%.4f", quote.Rate),
		Source:  quote.Source,
	}
}
