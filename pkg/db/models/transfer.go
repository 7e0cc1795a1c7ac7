package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer is a pending movement of one unit between selling points.
// Processing a transfer debits the SOURCE point; the destination side is
// credited separately as an incoming transfer.
//
// IsFromSale marks units that entered the transfer flow through the sale
// correction path. The flag's effect is "re-credit the origin on undo";
// the name is a legacy artifact kept for wire compatibility.
type Transfer struct {
	ID                     uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName               string              `gorm:"column:full_name;not null" json:"fullName"`
	Size                   string              `gorm:"column:size" json:"size"`
	ProductID              string              `gorm:"column:product_id;not null;uniqueIndex:idx_transfers_product_day" json:"productId"`
	Barcode                string              `gorm:"column:barcode" json:"barcode"`
	TransferFrom           string              `gorm:"column:transfer_from;not null" json:"transfer_from"`
	TransferTo             string              `gorm:"column:transfer_to;not null" json:"transfer_to"`
	Date                   time.Time           `gorm:"column:date;not null" json:"date"`
	DateString             string              `gorm:"column:date_string;not null;uniqueIndex:idx_transfers_product_day" json:"dateString"`
	Processed              bool                `gorm:"column:processed;not null;default:false" json:"processed"`
	ProcessedAt            *time.Time          `gorm:"column:processed_at" json:"processedAt,omitempty"`
	IsFromSale             bool                `gorm:"column:is_from_sale;not null;default:false" json:"isFromSale"`
	Reason                 *string             `gorm:"column:reason" json:"reason,omitempty"`
	AdvancePayment         decimal.NullDecimal `gorm:"column:advance_payment;type:numeric(10,2)" json:"advancePayment"`
	AdvancePaymentCurrency string              `gorm:"column:advance_payment_currency;default:'PLN'" json:"advancePaymentCurrency"`
	CreatedAt              time.Time           `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt              time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName pins the legacy table name.
func (Transfer) TableName() string { return "transfers" }
