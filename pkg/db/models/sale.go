package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sale is one sold unit awaiting (or after) stock processing. Cash and
// Card hold the legacy payment split arrays verbatim.
type Sale struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName     string          `gorm:"column:full_name;not null" json:"fullName"`
	Size         string          `gorm:"column:size" json:"size"`
	Barcode      string          `gorm:"column:barcode;not null" json:"barcode"`
	SellingPoint string          `gorm:"column:selling_point;not null" json:"sellingPoint"`
	Symbol       string          `gorm:"column:symbol;not null" json:"symbol"`
	Cash         json.RawMessage `gorm:"column:cash;type:jsonb" json:"cash,omitempty"`
	Card         json.RawMessage `gorm:"column:card;type:jsonb" json:"card,omitempty"`
	Processed    bool            `gorm:"column:processed;not null;default:false" json:"processed"`
	ProcessedAt  *time.Time      `gorm:"column:processed_at" json:"processedAt,omitempty"`
	Timestamp    time.Time       `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName pins the legacy table name.
func (Sale) TableName() string { return "sales" }
