package dto

// SaveQuoteRequest represents the request payload to persist a quote
// snapshot. Figures arrive already calculated by the cost and finance
// endpoints; the snapshot is frozen at save time.
type SaveQuoteRequest struct {
	Cost         float64 `json:"cost" validate:"gte=0" example:"480.42"`
	Sell         float64 `json:"sell" validate:"gte=0" example:"600"`
	CashProfit   float64 `json:"cashProfit" example:"119.58"`
	RiskProfit   float64 `json:"riskProfit" example:"91.2"`
	Weight       float64 `json:"weight" validate:"gte=0" example:"471"`
	Trucks       int     `json:"trucks" validate:"gte=0" example:"1"`
	DeliveryDate string  `json:"deliveryDate" validate:"max=50" example:"7 Eylül"`
	ClientName   string  `json:"clientName" validate:"required,min=1,max=255" example:"Aydın Çelik A.Ş."`
	ProjectName  string  `json:"projectName" validate:"required,min=1,max=255" example:"Depo Konstrüksiyon"`
}

// SaveQuoteResponse represents the response after persisting a quote
type SaveQuoteResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Quote saved"`
	QuoteID uint   `json:"quoteId" example:"42"`
}

// QuoteInfo represents a saved quote in listings
type QuoteInfo struct {
	ID           uint    `json:"id" example:"42"`
	UUID         string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ClientName   string  `json:"client_name" example:"Aydın Çelik A.Ş."`
	ProjectName  string  `json:"project_name" example:"Depo Konstrüksiyon"`
	CostUSD      float64 `json:"cost_usd" example:"480.42"`
	SellUSD      float64 `json:"sell_usd" example:"600"`
	ProfitCash   float64 `json:"profit_cash" example:"119.58"`
	ProfitRisk   float64 `json:"profit_risk" example:"91.2"`
	WeightKg     float64 `json:"weight_kg" example:"471"`
	TruckCount   int     `json:"truck_count" example:"1"`
	DeliveryDate string  `json:"delivery_date" example:"7 Eylül"`
	CreatedAt    string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ListQuotesResponse represents the user's saved quotes
type ListQuotesResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Quotes retrieved"`
	Data    []QuoteInfo `json:"data"`
}

// Common error codes for quote operations
const (
	ErrorClientNameRequired  = "CLIENT_NAME_REQUIRED"
	ErrorProjectNameRequired = "PROJECT_NAME_REQUIRED"
)
