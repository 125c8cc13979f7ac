package models

import (
	"time"

	"github.com/google/uuid"
)

// Quote is a saved snapshot of a cost and risk analysis bound to the user
// who ran it. Figures are frozen at save time; later market price moves do
// not affect recorded quotes.
// Table: quotes
// Indices on uuid, user_id, created_at
type Quote struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_quotes_uuid;index:idx_quotes_uuid" json:"uuid"`

	UserID uint `gorm:"not null;index:idx_quotes_user_id" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;references:ID" json:"-"`

	ClientName  string `gorm:"size:255;not null" json:"client_name"`
	ProjectName string `gorm:"size:255;not null" json:"project_name"`

	CostUSD          float64 `gorm:"type:numeric(14,2);not null" json:"cost_usd"`
	SellUSD          float64 `gorm:"type:numeric(14,2);not null" json:"sell_usd"`
	ProfitCash       float64 `gorm:"type:numeric(14,2);not null" json:"profit_cash"`
	ProfitRisk       float64 `gorm:"type:numeric(14,2);not null" json:"profit_risk"`
	MaterialWeightKg float64 `gorm:"type:numeric(14,3);not null" json:"material_weight_kg"`
	TruckCount       int     `gorm:"not null;default:0" json:"truck_count"`
	DeliveryDate     string  `gorm:"size:50" json:"delivery_date"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_quotes_created_at" json:"created_at"`
}

func (Quote) TableName() string {
	return "quotes"
}

// QuoteFilter represents filter criteria for quote queries
type QuoteFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	UserID        *uint
	ClientName    *string
	ProjectName   *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
