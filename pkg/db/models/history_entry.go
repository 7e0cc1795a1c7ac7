package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/modena-retail/backoffice-backend/pkg/enums"
)

// HistoryEntry is an append-only audit record of a stock-affecting action.
// One entry is written per affected inventory line, never coalesced, so
// that every physical unit stays independently undoable.
//
// TransferFrom/TransferTo are first-class columns written at insert time;
// older rows only carry the free-text Details and are handled by the
// legacy parser in internal/history.
type HistoryEntry struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CollectionName string                 `gorm:"column:collection_name;not null" json:"collectionName"`
	Operation      enums.HistoryOperation `gorm:"column:operation;not null" json:"operation"`
	From           string                 `gorm:"column:from_symbol;not null;default:'-'" json:"from"`
	To             string                 `gorm:"column:to_symbol;not null;default:'-'" json:"to"`
	Product        string                 `gorm:"column:product" json:"product"`
	Size           string                 `gorm:"column:size" json:"size"`
	Details        string                 `gorm:"column:details" json:"details"`
	TransferFrom   *string                `gorm:"column:transfer_from" json:"transferFrom,omitempty"`
	TransferTo     *string                `gorm:"column:transfer_to" json:"transferTo,omitempty"`
	TransactionID  *string                `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	OriginalData   json.RawMessage        `gorm:"column:original_data;type:jsonb" json:"originalData,omitempty"`
	Timestamp      time.Time              `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName pins the legacy table name.
func (HistoryEntry) TableName() string { return "history" }
