// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/metalmind-app/metalmind/app/services"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMaterials_GroupedByCategory(t *testing.T) {
	repo := &mockMaterialRepository{
		materials: []*models.Material{
			{ID: 1, Name: "Epoksi Boya (kg)", Type: models.MaterialTypeBoya, Price: 6.25, Location: utils.ToPtr("İkitelli")},
			{ID: 2, Name: "DKP Sac 2.00mm", Type: models.MaterialTypeDKP, Price: 842.25, Location: utils.ToPtr("Gebze")},
			{ID: 3, Name: "DKP Sac 1.00mm", Type: models.MaterialTypeDKP, Price: 855, Location: utils.ToPtr("Gebze")},
			{ID: 4, Name: "Kaynak Teli", Type: "tel", Price: 2.1, Location: nil},
		},
	}
	flow := NewMarketFlow(repo, &services.StaticRateService{Rate: 35})

	grouped, err := flow.ListMaterials(context.Background(), testMetadata())

	require.NoError(t, err)
	require.Len(t, grouped, 3)

	require.Len(t, grouped[models.MaterialTypeDKP], 2)
	assert.Equal(t, "DKP Sac 2.00mm", grouped[models.MaterialTypeDKP][0].Name)
	assert.Equal(t, 842.25, grouped[models.MaterialTypeDKP][0].Price)
	assert.Equal(t, "Gebze", grouped[models.MaterialTypeDKP][0].Location)

	require.Len(t, grouped[models.MaterialTypeBoya], 1)

	// nil location renders as an empty string, not a null
	require.Len(t, grouped["tel"], 1)
	assert.Empty(t, grouped["tel"][0].Location)
}

func TestListMaterials_RepositoryFailure(t *testing.T) {
	repo := &mockMaterialRepository{listErr: errors.New("connection refused")}
	flow := NewMarketFlow(repo, &services.StaticRateService{Rate: 35})

	grouped, err := flow.ListMaterials(context.Background(), testMetadata())

	require.Error(t, err)
	assert.Nil(t, grouped)
}

func TestSetPrice(t *testing.T) {
	repo := &mockMaterialRepository{
		materials: []*models.Material{
			{ID: 2, Name: "DKP Sac 2.00mm", Type: models.MaterialTypeDKP, Price: 842.25},
		},
	}
	flow := NewMarketFlow(repo, &services.StaticRateService{Rate: 35})

	result, err := flow.SetPrice(context.Background(), 2, 850.5, testMetadata())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "DKP Sac 2.00mm", result.Name)
	assert.Equal(t, 850.5, result.Price)
	assert.Equal(t, 850.5, repo.updated[2])
}

func TestSetPrice_UnknownMaterial(t *testing.T) {
	flow := NewMarketFlow(&mockMaterialRepository{}, &services.StaticRateService{Rate: 35})

	result, err := flow.SetPrice(context.Background(), 99, 850.5, testMetadata())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsMaterialNotFound(err))
}

func TestSetPrice_WriteFailure(t *testing.T) {
	repo := &mockMaterialRepository{
		materials: []*models.Material{
			{ID: 2, Name: "DKP Sac 2.00mm", Type: models.MaterialTypeDKP, Price: 842.25},
		},
		updateErr: errors.New("connection refused"),
	}
	flow := NewMarketFlow(repo, &services.StaticRateService{Rate: 35})

	result, err := flow.SetPrice(context.Background(), 2, 850.5, testMetadata())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.False(t, IsMaterialNotFound(err))
}

func TestUSDRate(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantSuccess bool
	}{
		{name: "live quote", source: services.RateSourceLive, wantSuccess: true},
		{name: "cached quote is flagged", source: services.RateSourceCache, wantSuccess: false},
		{name: "fallback quote is flagged", source: services.RateSourceFallback, wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := NewMarketFlow(&mockMaterialRepository{}, &services.StaticRateService{Rate: 34.8765, Source: tt.source})

			result := flow.USDRate(context.Background(), testMetadata())

			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, "34.8765", result.USDTRY)
			assert.Equal(t, tt.source, result.Source)
		})
	}
}
