// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/app/services"
	"github.com/stretchr/testify/assert"
)

func newTestFinanceFlow(rate float64, source string) FinanceFlow {
	return NewFinanceFlow(&services.StaticRateService{Rate: rate, Source: source}, DefaultFinanceParams())
}

func TestAnalyze_ProfitMargins(t *testing.T) {
	flow := newTestFinanceFlow(35.0, services.RateSourceLive)

	result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
		Cost: 500,
		Sell: 619.58,
		Risk: 5,
	}, testMetadata())

	assert.True(t, result.Success)
	assert.Equal(t, "120", result.ProfCash)
	// sellTL 21685.30 at future rate 36.75 buys back 590.08 USD
	assert.Equal(t, "90", result.ProfRisk)
	assert.Equal(t, "35.0000", result.Rate)
	assert.Equal(t, services.RateSourceLive, result.RateSource)
}

func TestAnalyze_ZeroRiskKeepsRiskProfitAtCashProfit(t *testing.T) {
	flow := newTestFinanceFlow(35.0, services.RateSourceLive)

	result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
		Cost: 400,
		Sell: 1000,
	}, testMetadata())

	assert.Equal(t, "600", result.ProfCash)
	assert.Equal(t, "600", result.ProfRisk)
}

func TestAnalyze_NegativeRiskRaisesRiskProfit(t *testing.T) {
	flow := newTestFinanceFlow(35.0, services.RateSourceLive)

	// TRY appreciation: the sell amount converts back into more dollars
	result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
		Cost: 500,
		Sell: 619.58,
		Risk: -5,
	}, testMetadata())

	assert.True(t, result.Success)
	assert.Equal(t, "120", result.ProfCash)
	// sellTL 21685.30 at future rate 33.25 buys back 652.19 USD
	assert.Equal(t, "152", result.ProfRisk)
}

func TestAnalyze_RiskProfitDecreasesAsRiskIncreases(t *testing.T) {
	flow := newTestFinanceFlow(35.0, services.RateSourceLive)

	risks := []float64{-10, 0, 10, 25}
	prev := 0
	for i, risk := range risks {
		result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
			Cost: 400,
			Sell: 1000,
			Risk: risk,
		}, testMetadata())

		profRisk, err := strconv.Atoi(result.ProfRisk)
		assert.NoError(t, err)
		if i > 0 {
			assert.Less(t, profRisk, prev, "risk %.0f should yield a smaller profit than the previous step", risk)
		}
		prev = profRisk
	}
}

func TestAnalyze_Logistics(t *testing.T) {
	tests := []struct {
		name      string
		weight    float64
		wantCount int
		wantCost  string
	}{
		{name: "no freight without weight", weight: 0, wantCount: 0, wantCost: "0"},
		{name: "token load still dispatches a truck", weight: 1000, wantCount: 1, wantCost: "35.000"},
		{name: "exactly one truck", weight: 24000, wantCount: 1, wantCost: "35.000"},
		{name: "partial second truck rounds up", weight: 25000, wantCount: 2, wantCost: "70.000"},
		{name: "heavy order", weight: 100000, wantCount: 5, wantCost: "175.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := newTestFinanceFlow(35.0, services.RateSourceLive)

			result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
				Weight: tt.weight,
			}, testMetadata())

			assert.Equal(t, tt.wantCount, result.LogCount)
			assert.Equal(t, tt.wantCost, result.LogCost)
		})
	}
}

func TestAnalyze_ProgressBilling(t *testing.T) {
	flow := newTestFinanceFlow(35.0, services.RateSourceLive)

	result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
		Sell: 1000,
		Prog: 30,
	}, testMetadata())

	assert.Equal(t, "300", result.BillAmount)
}

func TestAnalyze_FallbackRateIsReported(t *testing.T) {
	flow := newTestFinanceFlow(35.0, "")

	result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
		Cost: 100,
		Sell: 200,
	}, testMetadata())

	assert.True(t, result.Success)
	assert.Equal(t, services.RateSourceFallback, result.RateSource)
	assert.Equal(t, "35.0000", result.Rate)
}

func TestAnalyze_DeliveryDateUsesTurkishCalendar(t *testing.T) {
	flow := newTestFinanceFlow(35.0, services.RateSourceLive)

	result := flow.Analyze(context.Background(), &dto.FinanceAnalysisRequest{
		Weight: 10000,
	}, testMetadata())

	assert.NotEmpty(t, result.OpsDate)

	found := false
	for _, month := range turkishMonths {
		if len(result.OpsDate) > len(month) && result.OpsDate[len(result.OpsDate)-len(month):] == month {
			found = true
			break
		}
	}
	assert.True(t, found, "delivery date %q should end with a Turkish month name", result.OpsDate)
}

func TestFormatTurkishDate(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), "15 Ocak"},
		{time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC), "3 Ağustos"},
		{time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), "31 Aralık"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatTurkishDate(tt.date))
	}
}

func TestFormatTRThousands(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{35000, "35.000"},
		{105000, "105.000"},
		{1234567, "1.234.567"},
		{-105000, "-105.000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTRThousands(tt.in))
	}
}
