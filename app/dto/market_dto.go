package dto

// MaterialEntry is a single priced row in the market listing. The short keys
// (n/l/p) are the wire format the dashboard client expects.
type MaterialEntry struct {
	Name     string  `json:"n" example:"DKP Sac 2mm"`
	Location string  `json:"l" example:"Gebze"`
	Price    float64 `json:"p" example:"845.250"`
}

// GroupedMaterials maps a material category to its price rows, cheapest first
type GroupedMaterials map[string][]MaterialEntry

// USDRateResponse represents the USD/TRY rate with its provenance. Source is
// "live" when the provider answered, "cache" when serving the last good
// value, "fallback" when neither was available.
type USDRateResponse struct {
	Success bool   `json:"success" example:"true"`
	USDTRY  string `json:"USD_TRY" example:"36.7500"`
	Source  string `json:"source" example:"live"`
}

// UpdateMaterialPriceRequest represents a manual board correction by an admin
type UpdateMaterialPriceRequest struct {
	Price float64 `json:"price" validate:"gt=0" example:"845.250"`
}

// UpdateMaterialPriceResponse confirms a manual price write
type UpdateMaterialPriceResponse struct {
	Success bool    `json:"success" example:"true"`
	Message string  `json:"message" example:"Price updated"`
	Name    string  `json:"name" example:"DKP Sac 2.00mm"`
	Price   float64 `json:"price" example:"845.250"`
}

// Market error codes
const (
	ErrorMaterialNotFound = "MATERIAL_NOT_FOUND"
)
