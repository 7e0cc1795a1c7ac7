package models

import (
	"time"

	"github.com/google/uuid"
)

// SellingPoint identifies a physical or logical sales location by its
// short symbol code.
type SellingPoint struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Symbol    string    `gorm:"column:symbol;not null;uniqueIndex" json:"symbol"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Location  string    `gorm:"column:location" json:"location"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName pins the legacy table name.
func (SellingPoint) TableName() string { return "selling_points" }
