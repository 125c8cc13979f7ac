// Package businessflow contains the business logic for the application.
package businessflow

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockQuoteRepository struct {
	saved   []*models.Quote
	quotes  []*models.Quote
	saveErr error
	listErr error
}

func (m *mockQuoteRepository) ByID(ctx context.Context, id uint) (*models.Quote, error) {
	for _, q := range m.quotes {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (m *mockQuoteRepository) ByFilter(ctx context.Context, filter models.QuoteFilter, orderBy string, limit, offset int) ([]*models.Quote, error) {
	return m.quotes, m.listErr
}

func (m *mockQuoteRepository) Save(ctx context.Context, entity *models.Quote) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	entity.ID = uint(len(m.saved) + 1)
	m.saved = append(m.saved, entity)
	return nil
}

func (m *mockQuoteRepository) SaveBatch(ctx context.Context, entities []*models.Quote) error {
	return nil
}

func (m *mockQuoteRepository) Count(ctx context.Context, filter models.QuoteFilter) (int64, error) {
	return int64(len(m.quotes)), nil
}

func (m *mockQuoteRepository) Exists(ctx context.Context, filter models.QuoteFilter) (bool, error) {
	return len(m.quotes) > 0, nil
}

func (m *mockQuoteRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Quote, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Quote
	for _, q := range m.quotes {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func validSaveQuoteRequest() *dto.SaveQuoteRequest {
	return &dto.SaveQuoteRequest{
		Cost:         480.42,
		Sell:         650,
		CashProfit:   169.58,
		RiskProfit:   140.2,
		Weight:       471,
		Trucks:       1,
		DeliveryDate: "12 Eylül",
		ClientName:   "Demir Çelik A.Ş.",
		ProjectName:  "Depo Konstrüksiyonu",
	}
}

func TestSaveQuote(t *testing.T) {
	repo := &mockQuoteRepository{}
	flow := NewQuoteFlow(repo)

	result, err := flow.SaveQuote(context.Background(), 42, validSaveQuoteRequest(), testMetadata())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, uint(1), result.QuoteID)

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, uint(42), saved.UserID)
	assert.Equal(t, "Demir Çelik A.Ş.", saved.ClientName)
	assert.Equal(t, "Depo Konstrüksiyonu", saved.ProjectName)
	assert.Equal(t, 480.42, saved.CostUSD)
	assert.Equal(t, "12 Eylül", saved.DeliveryDate)
	assert.NotEqual(t, uuid.Nil, saved.UUID)
}

func TestSaveQuote_TrimsNames(t *testing.T) {
	repo := &mockQuoteRepository{}
	flow := NewQuoteFlow(repo)

	req := validSaveQuoteRequest()
	req.ClientName = "  Demir Çelik A.Ş.  "
	req.ProjectName = "\tDepo\t"

	_, err := flow.SaveQuote(context.Background(), 42, req, testMetadata())

	require.NoError(t, err)
	assert.Equal(t, "Demir Çelik A.Ş.", repo.saved[0].ClientName)
	assert.Equal(t, "Depo", repo.saved[0].ProjectName)
}

func TestSaveQuote_RequiredNames(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.SaveQuoteRequest)
		checkFn func(error) bool
	}{
		{
			name:    "blank client name",
			mutate:  func(r *dto.SaveQuoteRequest) { r.ClientName = "   " },
			checkFn: IsClientNameRequired,
		},
		{
			name:    "blank project name",
			mutate:  func(r *dto.SaveQuoteRequest) { r.ProjectName = "" },
			checkFn: IsProjectNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockQuoteRepository{}
			flow := NewQuoteFlow(repo)

			req := validSaveQuoteRequest()
			tt.mutate(req)

			result, err := flow.SaveQuote(context.Background(), 42, req, testMetadata())

			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, tt.checkFn(err))
			assert.Empty(t, repo.saved)
		})
	}
}

func TestSaveQuote_RepositoryFailure(t *testing.T) {
	repo := &mockQuoteRepository{saveErr: errors.New("connection refused")}
	flow := NewQuoteFlow(repo)

	result, err := flow.SaveQuote(context.Background(), 42, validSaveQuoteRequest(), testMetadata())

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestListQuotes(t *testing.T) {
	repo := &mockQuoteRepository{
		quotes: []*models.Quote{
			{ID: 2, UUID: uuid.New(), UserID: 42, ClientName: "B", ProjectName: "P2", CreatedAt: time.Now()},
			{ID: 1, UUID: uuid.New(), UserID: 42, ClientName: "A", ProjectName: "P1", CreatedAt: time.Now()},
			{ID: 3, UUID: uuid.New(), UserID: 99, ClientName: "Other", ProjectName: "P3", CreatedAt: time.Now()},
		},
	}
	flow := NewQuoteFlow(repo)

	result, err := flow.ListQuotes(context.Background(), 42, 50, 0)

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "B", result.Data[0].ClientName)
	assert.Equal(t, "A", result.Data[1].ClientName)
}

func TestListQuotes_EmptyResultIsNotAnError(t *testing.T) {
	flow := NewQuoteFlow(&mockQuoteRepository{})

	result, err := flow.ListQuotes(context.Background(), 42, 50, 0)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Data)
}

func TestExportQuotes(t *testing.T) {
	repo := &mockQuoteRepository{
		quotes: []*models.Quote{
			{
				ID:               1,
				UUID:             uuid.New(),
				UserID:           42,
				ClientName:       "Demir Çelik A.Ş.",
				ProjectName:      "Depo Konstrüksiyonu",
				CostUSD:          480.42,
				SellUSD:          650,
				MaterialWeightKg: 471,
				TruckCount:       1,
				DeliveryDate:     "12 Eylül",
				CreatedAt:        time.Now(),
			},
		},
	}
	flow := NewQuoteFlow(repo)

	content, filename, err := flow.ExportQuotes(context.Background(), 42)

	require.NoError(t, err)
	assert.Regexp(t, `^teklifler_\d{4}-\d{2}-\d{2}\.xlsx$`, filename)
	require.NotEmpty(t, content)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Teklifler", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Müşteri", header)

	client, err := f.GetCellValue("Teklifler", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Demir Çelik A.Ş.", client)
}
