package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Goods is a catalog product definition. FullName and Code carry unique
// business constraints checked explicitly before insert.
type Goods struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName      string              `gorm:"column:full_name;not null;uniqueIndex" json:"fullName"`
	Code          string              `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Category      string              `gorm:"column:category" json:"category"`
	Subcategory   string              `gorm:"column:subcategory" json:"subcategory"`
	Color         string              `gorm:"column:color" json:"color"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(10,2)" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"column:discount_price;type:numeric(10,2)" json:"discountPrice"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName pins the legacy table name.
func (Goods) TableName() string { return "goods" }
