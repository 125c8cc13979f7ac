package dto

// FinanceAnalysisRequest represents the request payload for a financial risk
// and logistics analysis. Cost and sell are USD, weight is kg, risk is the
// expected FX move percent (negative models TRY appreciation), prog is the
// progress-billing percent. Risk must stay above -100 so the projected rate
// remains positive.
type FinanceAnalysisRequest struct {
	Cost   float64 `json:"cost" validate:"gte=0" example:"480.42"`
	Weight float64 `json:"weight" validate:"gte=0" example:"471"`
	Sell   float64 `json:"sell" validate:"gte=0" example:"600"`
	Risk   float64 `json:"risk" validate:"gt=-100,lte=100" example:"5"`
	Prog   float64 `json:"prog" validate:"gte=0,lte=100" example:"50"`
}

// FinanceAnalysisResponse represents the analysis result. Monetary figures
// are preformatted strings matching the client wire format; logCost uses
// tr-TR thousands separators.
type FinanceAnalysisResponse struct {
	Success    bool   `json:"success" example:"true"`
	ProfCash   string `json:"profCash" example:"120"`
	ProfRisk   string `json:"profRisk" example:"91"`
	LogCount   int    `json:"logCount" example:"1"`
	LogCost    string `json:"logCost" example:"35.000"`
	OpsDate    string `json:"opsDate" example:"7 Eylül"`
	BillAmount string `json:"billAmount" example:"300"`
	Rate       string `json:"rate" example:"36.7500"`
	RateSource string `json:"rateSource" example:"live"`
}
