package dto

// Costing modes accepted by the cost endpoint
const (
	CostingModeMetal = "metal"
	CostingModeSarf  = "sarf"
)

// CostEstimateRequest represents the request payload for a cost estimate.
// Field names follow the client wire format: dimensions are in millimeters,
// acinim is the unfolded sheet width.
type CostEstimateRequest struct {
	Mode     string   `json:"mode" validate:"required,max=20" example:"metal"`
	Acinim   *float64 `json:"acinim,omitempty" validate:"omitempty,gt=0" example:"1000"`
	Kalinlik *float64 `json:"kalinlik,omitempty" validate:"omitempty,gt=0" example:"2"`
	Boy      *float64 `json:"boy,omitempty" validate:"omitempty,gt=0" example:"3000"`
	Adet     *int     `json:"adet,omitempty" validate:"omitempty,gte=1" example:"10"`
	SarfType string   `json:"sarfType,omitempty" validate:"omitempty,max=50" example:"civata"`
	SarfQty  *float64 `json:"sarfQty,omitempty" validate:"omitempty,gt=0" example:"500"`
}

// CostEstimateResponse represents the calculated estimate. Cost and weight
// are fixed-precision strings to keep the wire format stable for clients.
type CostEstimateResponse struct {
	Success bool   `json:"success" example:"true"`
	Cost    string `json:"cost" example:"480.42"`
	Weight  string `json:"weight" example:"471.000"`
	Info    string `json:"info" example:"471.0 kg • Sac"`
}

// Common error codes for costing operations
const (
	ErrorMissingDimensions = "MISSING_DIMENSIONS"
	ErrorMissingConsumable = "MISSING_CONSUMABLE"
	ErrorPriceNotAvailable = "PRICE_NOT_AVAILABLE"
)
