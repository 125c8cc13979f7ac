package models

import (
	"time"

	"github.com/google/uuid"
)

// Material categories stored in the type column. Sheet-metal cost estimation
// takes the cheapest of the sheet categories; consumables are priced per unit.
const (
	MaterialTypeDKP    = "dkp"
	MaterialTypeHRP    = "hrp"
	MaterialTypeGal    = "gal"
	MaterialTypeBoya   = "boya"
	MaterialTypeCivata = "civata"
	MaterialTypeDubel  = "dubel"
)

// SheetMaterialTypes are the categories eligible as a sheet-metal price basis
var SheetMaterialTypes = []string{MaterialTypeDKP, MaterialTypeHRP}

// Material represents a priced commodity row the market simulator perturbs
// Table: materials
// Indices on uuid, type, created_at
// Price is in USD per ton for sheet categories, USD per unit for consumables
type Material struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_materials_uuid;index:idx_materials_uuid" json:"uuid"`

	Name     string  `gorm:"size:255;not null" json:"name"`
	Type     string  `gorm:"size:50;not null;index:idx_materials_type" json:"type"`
	Price    float64 `gorm:"type:numeric(12,3);not null" json:"price"`
	Location *string `gorm:"size:255" json:"location,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_materials_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

// MaterialFilter represents filter criteria for material queries
type MaterialFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Name          *string
	Type          *string
	Types         []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
