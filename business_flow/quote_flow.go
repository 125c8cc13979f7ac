// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/models"
	"github.com/metalmind-app/metalmind/repository"
	"github.com/xuri/excelize/v2"
)

// QuoteFlow persists and retrieves quote snapshots
type QuoteFlow interface {
	SaveQuote(ctx context.Context, userID uint, request *dto.SaveQuoteRequest, metadata *ClientMetadata) (*dto.SaveQuoteResponse, error)
	ListQuotes(ctx context.Context, userID uint, limit, offset int) (*dto.ListQuotesResponse, error)
	ExportQuotes(ctx context.Context, userID uint) ([]byte, string, error)
}

// QuoteFlowImpl implements the quote business flow
type QuoteFlowImpl struct {
	quoteRepo repository.QuoteRepository
}

// NewQuoteFlow creates a new quote flow instance
func NewQuoteFlow(quoteRepo repository.QuoteRepository) QuoteFlow {
	return &QuoteFlowImpl{
		quoteRepo: quoteRepo,
	}
}

// SaveQuote freezes a calculated quote for the authenticated user
func (qf *QuoteFlowImpl) SaveQuote(ctx context.Context, userID uint, request *dto.SaveQuoteRequest, metadata *ClientMetadata) (*dto.SaveQuoteResponse, error) {
	if strings.TrimSpace(request.ClientName) == "" {
		return nil, NewBusinessError(dto.ErrorClientNameRequired, "Client name is required", ErrClientNameRequired)
	}
	if strings.TrimSpace(request.ProjectName) == "" {
		return nil, NewBusinessError(dto.ErrorProjectNameRequired, "Project name is required", ErrProjectNameRequired)
	}

	quote := &models.Quote{
		UUID:             uuid.New(),
		UserID:           userID,
		ClientName:       strings.TrimSpace(request.ClientName),
		ProjectName:      strings.TrimSpace(request.ProjectName),
		CostUSD:          request.Cost,
		SellUSD:          request.Sell,
		ProfitCash:       request.CashProfit,
		ProfitRisk:       request.RiskProfit,
		MaterialWeightKg: request.Weight,
		TruckCount:       request.Trucks,
		DeliveryDate:     request.DeliveryDate,
	}

	if err := qf.quoteRepo.Save(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	return &dto.SaveQuoteResponse{
		Success: true,
		Message: "Quote saved",
		QuoteID: quote.ID,
	}, nil
}

// ListQuotes returns the user's saved quotes, newest first
func (qf *QuoteFlowImpl) ListQuotes(ctx context.Context, userID uint, limit, offset int) (*dto.ListQuotesResponse, error) {
	quotes, err := qf.quoteRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	infos := make([]dto.QuoteInfo, 0, len(quotes))
	for _, q := range quotes {
		infos = append(infos, toQuoteInfo(q))
	}

	return &dto.ListQuotesResponse{
		Success: true,
		Message: "Quotes retrieved",
		Data:    infos,
	}, nil
}

// ExportQuotes renders the user's saved quotes as an xlsx workbook and
// returns the file bytes plus a suggested filename.
func (qf *QuoteFlowImpl) ExportQuotes(ctx context.Context, userID uint) ([]byte, string, error) {
	quotes, err := qf.quoteRepo.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list quotes for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Teklifler"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Müşteri", "Proje", "Maliyet (USD)", "Satış (USD)", "Nakit Kâr", "Riskli Kâr", "Ağırlık (kg)", "Tır", "Termin", "Kayıt Tarihi"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", err
		}
	}

	for row, q := range quotes {
		values := []any{
			q.ID,
			q.ClientName,
			q.ProjectName,
			q.CostUSD,
			q.SellUSD,
			q.ProfitCash,
			q.ProfitRisk,
			q.MaterialWeightKg,
			q.TruckCount,
			q.DeliveryDate,
			q.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("teklifler_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func toQuoteInfo(q *models.Quote) dto.QuoteInfo {
	return dto.QuoteInfo{
		ID:           q.ID,
		UUID:         q.UUID.String(),
		ClientName:   q.ClientName,
		ProjectName:  q.ProjectName,
		CostUSD:      q.CostUSD,
		SellUSD:      q.SellUSD,
		ProfitCash:   q.ProfitCash,
		ProfitRisk:   q.ProfitRisk,
		WeightKg:     q.MaterialWeightKg,
		TruckCount:   q.TruckCount,
		DeliveryDate: q.DeliveryDate,
		CreatedAt:    q.CreatedAt.Format(time.RFC3339),
	}
}
