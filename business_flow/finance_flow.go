// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/metalmind-app/metalmind/app/dto"
	"github.com/metalmind-app/metalmind/app/services"
	"github.com/metalmind-app/metalmind/utils"
)

// FinanceParams carries the logistics and scheduling constants
type FinanceParams struct {
	// TruckCapacityKg is the payload of one truck (24000)
	TruckCapacityKg float64
	// TruckPriceTL is the flat freight price per truck in TRY (35000)
	TruckPriceTL float64
	// DailyCapacityKg is the shop's production throughput per day (15000)
	DailyCapacityKg float64
	// BacklogKg is the standing order backlog ahead of any new job (80000)
	BacklogKg float64
}

// DefaultFinanceParams returns the production logistics constants
func DefaultFinanceParams() FinanceParams {
	return FinanceParams{
		TruckCapacityKg: 24000,
		TruckPriceTL:    35000,
		DailyCapacityKg: 15000,
		BacklogKg:       80000,
	}
}

// Turkish month names for delivery dates shown to the client
var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// FinanceFlow runs the financial risk and logistics analysis
type FinanceFlow interface {
	Analyze(ctx context.Context, request *dto.FinanceAnalysisRequest, metadata *ClientMetadata) *dto.FinanceAnalysisResponse
}

// FinanceFlowImpl implements the finance business flow
type FinanceFlowImpl struct {
	rateService services.ExchangeRateService
	params      FinanceParams
}

// NewFinanceFlow creates a new finance flow instance
func NewFinanceFlow(rateService services.ExchangeRateService, params FinanceParams) FinanceFlow {
	return &FinanceFlowImpl{
		rateService: rateService,
		params:      params,
	}
}

// Analyze computes profit margins, FX risk, logistics cost, and the
// projected delivery date. It never fails: when the rate provider is
// down the analysis runs on the cached or fallback rate and the
// response says so via rateSource.
func (ff *FinanceFlowImpl) Analyze(ctx context.Context, request *dto.FinanceAnalysisRequest, metadata *ClientMetadata) *dto.FinanceAnalysisResponse {
	quote := ff.rateService.USDTRY(ctx)

	// Profit margins
	cash := request.Sell - request.Cost
	sellTL := request.Sell * quote.Rate
	futureRate := quote.Rate * (1 + request.Risk/100)
	futureUSD := sellTL / futureRate
	riskProf := futureUSD - request.Cost

	// Logistics
	truckCount := 0
	logCostTL := 0.0
	if request.Weight > 0 {
		trucks := request.Weight / ff.params.TruckCapacityKg
		// A token load still dispatches a truck
		if trucks > 0 && trucks < 0.1 {
			trucks = 0.1
		}
		truckCount = int(math.Ceil(trucks))
		logCostTL = float64(truckCount) * ff.params.TruckPriceTL
	}

	// Delivery schedule: the new job queues behind the standing backlog
	totalLoad := ff.params.BacklogKg + request.Weight
	days := int(math.Ceil(totalLoad / ff.params.DailyCapacityKg))
	opsDate := ff.deliveryDate(days)

	// Progress billing
	billAmount := request.Sell * (request.Prog / 100)

	return &dto.FinanceAnalysisResponse{
		Success:    true,
		ProfCash:   fmt.Sprintf("%.0f", cash),
		ProfRisk:   fmt.Sprintf("%.0f", riskProf),
		LogCount:   truckCount,
		LogCost:    FormatTRThousands(int64(logCostTL)),
		OpsDate:    opsDate,
		BillAmount: fmt.Sprintf("%.0f", billAmount),
		Rate:       fmt.Sprintf("%.4f", quote.Rate),
		RateSource: quote.Source,
	}
}

// deliveryDate formats today+days as "<day> <Turkish month>" on the
// factory's local calendar.
func (ff *FinanceFlowImpl) deliveryDate(days int) string {
	now, err := utils.IstanbulNow()
	if err != nil {
		log.Printf("failed to load Istanbul timezone, using UTC: %v", err)
		now = utils.UTCNow()
	}
	date := now.AddDate(0, 0, days)
	return formatTurkishDate(date)
}

func formatTurkishDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + turkishMonths[int(t.Month())-1]
}

// FormatTRThousands renders an integer with tr-TR thousands separators,
// e.g. 105000 becomes "105.000".
func FormatTRThousands(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		for i, c := range []byte(s) {
			if i > 0 && (len(s)-i)%3 == 0 {
				out = append(out, '.')
			}
			out = append(out, c)
		}
		s = string(out)
	}

	if negative {
		return "-" + s
	}
	return s
}
