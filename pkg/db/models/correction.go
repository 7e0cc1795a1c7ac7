package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modena-retail/backoffice-backend/pkg/enums"
)

// Correction records a detected mismatch between an attempted stock
// operation and the actual inventory state. It is observational: creating
// one never mutates inventory.
type Correction struct {
	ID                 uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName           string                    `gorm:"column:full_name;not null" json:"fullName"`
	Size               string                    `gorm:"column:size;not null" json:"size"`
	Barcode            string                    `gorm:"column:barcode;not null" json:"barcode"`
	SellingPoint       string                    `gorm:"column:selling_point;not null" json:"sellingPoint"`
	Symbol             string                    `gorm:"column:symbol;not null" json:"symbol"`
	ErrorType          enums.CorrectionErrorType `gorm:"column:error_type;not null" json:"errorType"`
	Description        string                    `gorm:"column:description" json:"description"`
	AttemptedOperation enums.AttemptedOperation  `gorm:"column:attempted_operation;not null" json:"attemptedOperation"`
	Status             enums.CorrectionStatus    `gorm:"column:status;not null" json:"status"`
	OriginalPrice      decimal.NullDecimal       `gorm:"column:original_price;type:numeric(10,2)" json:"originalPrice"`
	DiscountPrice      decimal.NullDecimal       `gorm:"column:discount_price;type:numeric(10,2)" json:"discountPrice"`
	TransactionID      *string                   `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	OriginalData       json.RawMessage           `gorm:"column:original_data;type:jsonb" json:"originalData,omitempty"`
	CreatedAt          time.Time                 `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	ResolvedAt         *time.Time                `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
	ResolvedBy         *string                   `gorm:"column:resolved_by" json:"resolvedBy,omitempty"`
}

// TableName pins the legacy table name.
func (Correction) TableName() string { return "corrections" }
