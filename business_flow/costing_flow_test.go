// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMaterialRepository is a hand-rolled stand-in for the material table
type mockMaterialRepository struct {
	minPrice    *float64
	minPriceErr error
	materials   []*models.Material
	listErr     error
	updateErr   error
	updated     map[uint]float64
}

func (m *mockMaterialRepository) ByID(ctx context.Context, id uint) (*models.Material, error) {
	for _, mat := range m.materials {
		if mat.ID == id {
			return mat, nil
		}
	}
	return nil, nil
}

func (m *mockMaterialRepository) ByFilter(ctx context.Context, filter models.MaterialFilter, orderBy string, limit, offset int) ([]*models.Material, error) {
	return m.materials, m.listErr
}

func (m *mockMaterialRepository) Save(ctx context.Context, entity *models.Material) error {
	return nil
}

func (m *mockMaterialRepository) SaveBatch(ctx context.Context, entities []*models.Material) error {
	return nil
}

func (m *mockMaterialRepository) Count(ctx context.Context, filter models.MaterialFilter) (int64, error) {
	return int64(len(m.materials)), nil
}

func (m *mockMaterialRepository) Exists(ctx context.Context, filter models.MaterialFilter) (bool, error) {
	return len(m.materials) > 0, nil
}

func (m *mockMaterialRepository) ListAll(ctx context.Context) ([]*models.Material, error) {
	return m.materials, m.listErr
}

func (m *mockMaterialRepository) ByType(ctx context.Context, materialType string) ([]*models.Material, error) {
	var out []*models.Material
	for _, mat := range m.materials {
		if mat.Type == materialType {
			out = append(out, mat)
		}
	}
	return out, nil
}

func (m *mockMaterialRepository) MinPriceByTypes(ctx context.Context, types []string) (*float64, error) {
	return m.minPrice, m.minPriceErr
}

func (m *mockMaterialRepository) UpdatePrice(ctx context.Context, id uint, price float64, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updated == nil {
		m.updated = make(map[uint]float64)
	}
	m.updated[id] = price
	return nil
}

func testMetadata() *ClientMetadata {
	return NewClientMetadata("203.0.113.10", "test-agent")
}

func TestEstimateCost_SheetMetal(t *testing.T) {
	tests := []struct {
		name       string
		minPrice   *float64
		acinim     float64
		kalinlik   float64
		boy        float64
		adet       int
		wantCost   string
		wantWeight string
		wantInfo   string
	}{
		{
			name:       "fallback basis when no sheet prices recorded",
			minPrice:   nil,
			acinim:     2000,
			kalinlik:   1.5,
			boy:        2000,
			adet:       10,
			wantCost:   "480.42",
			wantWeight: "471.000",
			wantInfo:   "471.0 kg • Sac",
		},
		{
			name:       "cheapest recorded sheet price as basis",
			minPrice:   utils.ToPtr(800.0),
			acinim:     2000,
			kalinlik:   1.5,
			boy:        2000,
			adet:       10,
			wantCost:   "452.16",
			wantWeight: "471.000",
			wantInfo:   "471.0 kg • Sac",
		},
		{
			name:       "single small part",
			minPrice:   utils.ToPtr(850.0),
			acinim:     100,
			kalinlik:   2,
			boy:        100,
			adet:       1,
			wantCost:   "0.16",
			wantWeight: "0.157",
			wantInfo:   "0.2 kg • Sac",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockMaterialRepository{minPrice: tt.minPrice}
			flow := NewCostingFlow(repo, DefaultCostingParams())

			result, err := flow.EstimateCost(context.Background(), &dto.CostEstimateRequest{
				Mode:     dto.CostingModeMetal,
				Acinim:   utils.ToPtr(tt.acinim),
				Kalinlik: utils.ToPtr(tt.kalinlik),
				Boy:      utils.ToPtr(tt.boy),
				Adet:     utils.ToPtr(tt.adet),
			}, testMetadata())

			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, tt.wantCost, result.Cost)
			assert.Equal(t, tt.wantWeight, result.Weight)
			assert.Equal(t, tt.wantInfo, result.Info)
		})
	}
}

func TestEstimateCost_SheetMetalValidation(t *testing.T) {
	tests := []struct {
		name    string
		request *dto.CostEstimateRequest
	}{
		{
			name: "missing thickness",
			request: &dto.CostEstimateRequest{
				Mode:   dto.CostingModeMetal,
				Acinim: utils.ToPtr(2000.0),
				Boy:    utils.ToPtr(2000.0),
				Adet:   utils.ToPtr(10),
			},
		},
		{
			name: "zero dimension",
			request: &dto.CostEstimateRequest{
				Mode:     dto.CostingModeMetal,
				Acinim:   utils.ToPtr(0.0),
				Kalinlik: utils.ToPtr(1.5),
				Boy:      utils.ToPtr(2000.0),
				Adet:     utils.ToPtr(10),
			},
		},
		{
			name: "missing quantity",
			request: &dto.CostEstimateRequest{
				Mode:     dto.CostingModeMetal,
				Acinim:   utils.ToPtr(2000.0),
				Kalinlik: utils.ToPtr(1.5),
				Boy:      utils.ToPtr(2000.0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockMaterialRepository{minPrice: utils.ToPtr(850.0)}
			flow := NewCostingFlow(repo, DefaultCostingParams())

			result, err := flow.EstimateCost(context.Background(), tt.request, testMetadata())

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, IsMissingDimensions(err))
		})
	}
}

func TestEstimateCost_Consumable(t *testing.T) {
	repo := &mockMaterialRepository{minPrice: utils.ToPtr(0.75)}
	flow := NewCostingFlow(repo, DefaultCostingParams())

	result, err := flow.EstimateCost(context.Background(), &dto.CostEstimateRequest{
		Mode:     dto.CostingModeSarf,
		SarfType: models.MaterialTypeCivata,
		SarfQty:  utils.ToPtr(500.0),
	}, testMetadata())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "375.00", result.Cost)
	assert.Equal(t, "0.000", result.Weight)
	assert.Equal(t, "500 Adet/Kg • CIVATA", result.Info)
}

func TestEstimateCost_ConsumableMissingSelection(t *testing.T) {
	repo := &mockMaterialRepository{minPrice: utils.ToPtr(0.75)}
	flow := NewCostingFlow(repo, DefaultCostingParams())

	_, err := flow.EstimateCost(context.Background(), &dto.CostEstimateRequest{
		Mode:    dto.CostingModeSarf,
		SarfQty: utils.ToPtr(500.0),
	}, testMetadata())

	require.Error(t, err)
	assert.True(t, IsMissingConsumable(err))
}

func TestEstimateCost_ConsumablePriceNotAvailable(t *testing.T) {
	// No row in the requested category; the quote must be rejected rather
	// than priced at zero
	repo := &mockMaterialRepository{minPrice: nil}
	flow := NewCostingFlow(repo, DefaultCostingParams())

	_, err := flow.EstimateCost(context.Background(), &dto.CostEstimateRequest{
		Mode:     dto.CostingModeSarf,
		SarfType: models.MaterialTypeDubel,
		SarfQty:  utils.ToPtr(100.0),
	}, testMetadata())

	require.Error(t, err)
	assert.True(t, IsPriceNotAvailable(err))
}

func TestEstimateCost_RepositoryFailure(t *testing.T) {
	repo := &mockMaterialRepository{minPriceErr: errors.New("connection refused")}
	flow := NewCostingFlow(repo, DefaultCostingParams())

	_, err := flow.EstimateCost(context.Background(), &dto.CostEstimateRequest{
		Mode:     dto.CostingModeMetal,
		Acinim:   utils.ToPtr(2000.0),
		Kalinlik: utils.ToPtr(1.5),
		Boy:      utils.ToPtr(2000.0),
		Adet:     utils.ToPtr(10),
	}, testMetadata())

	require.Error(t, err)
	assert.False(t, IsMissingDimensions(err))
}

func TestEstimateCost_UnknownModeReturnsZeroEstimate(t *testing.T) {
	repo := &mockMaterialRepository{minPrice: utils.ToPtr(850.0)}
	flow := NewCostingFlow(repo, DefaultCostingParams())

	result, err := flow.EstimateCost(context.Background(), &dto.CostEstimateRequest{
		Mode: "paslanmaz",
	}, testMetadata())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "0.00", result.Cost)
	assert.Equal(t, "0.000", result.Weight)
	assert.Empty(t, result.Info)
}
