package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFinanceAnalysisRequest_RiskRange(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		risk    float64
		wantErr bool
	}{
		{name: "depreciation", risk: 5, wantErr: false},
		{name: "appreciation", risk: -5, wantErr: false},
		{name: "zero", risk: 0, wantErr: false},
		{name: "full depreciation", risk: 100, wantErr: false},
		{name: "rate would hit zero", risk: -100, wantErr: true},
		{name: "beyond full depreciation", risk: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := FinanceAnalysisRequest{
				Cost:   480.42,
				Weight: 471,
				Sell:   600,
				Risk:   tt.risk,
				Prog:   50,
			}

			err := validate.Struct(&req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
