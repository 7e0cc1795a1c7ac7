package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRecord is one physical stock unit at a selling point. Existence
// of a row is the sole proof that the unit is available to sell or
// transfer from that point.
//
// Barcode may be a synthetic id for transfer-sourced units, which is why
// lookups also match on (full_name, size, symbol).
type InventoryRecord struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName      string              `gorm:"column:full_name;not null" json:"fullName"`
	Size          string              `gorm:"column:size" json:"size"`
	Barcode       string              `gorm:"column:barcode;not null" json:"barcode"`
	Symbol        string              `gorm:"column:symbol;not null" json:"symbol"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(10,2)" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"column:discount_price;type:numeric(10,2)" json:"discountPrice"`
	AddedAt       time.Time           `gorm:"column:added_at;autoCreateTime" json:"addedAt"`
}

// TableName pins the legacy table name.
func (InventoryRecord) TableName() string { return "states" }
