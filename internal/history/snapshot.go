package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
)

// RestoreSnapshot is the restoration payload carried by stock-affecting
// history entries. It holds everything undo needs to recreate the unit
// without consulting the (already mutated) live tables.
type RestoreSnapshot struct {
	StateID            string              `json:"stateId,omitempty"`
	OriginalID         string              `json:"originalId,omitempty"`
	FullName           string              `json:"fullName,omitempty"`
	Size               string              `json:"size,omitempty"`
	Barcode            string              `json:"barcode,omitempty"`
	Symbol             string              `json:"symbol,omitempty"`
	Price              decimal.Decimal     `json:"price"`
	DiscountPrice      decimal.NullDecimal `json:"discountPrice"`
	TransferID         string              `json:"transferId,omitempty"`
	SaleID             string              `json:"saleId,omitempty"`
	IsFromSale         bool                `json:"isFromSale,omitempty"`
	TransferFrom       string              `json:"transfer_from,omitempty"`
	TransferTo         string              `json:"transfer_to,omitempty"`
	FromWarehouse      bool                `json:"fromWarehouse,omitempty"`
	IsIncomingTransfer bool                `json:"isIncomingTransfer,omitempty"`
	AdvancePayment     decimal.NullDecimal `json:"advancePayment"`
	Reason             *string             `json:"reason,omitempty"`
	Date               *time.Time          `json:"date,omitempty"`
}

// SnapshotFrom decodes the restore snapshot of an entry. New rows store it
// in the original_data column; rows written by the previous system kept
// the JSON inside the free-text details.
func SnapshotFrom(entry *models.HistoryEntry) (*RestoreSnapshot, error) {
	var snapshot RestoreSnapshot
	if len(entry.OriginalData) > 0 {
		if err := json.Unmarshal(entry.OriginalData, &snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return &snapshot, nil
	}
	details := strings.TrimSpace(entry.Details)
	if strings.HasPrefix(details, "{") {
		if err := json.Unmarshal([]byte(details), &snapshot); err != nil {
			return nil, fmt.Errorf("decode legacy snapshot: %w", err)
		}
		return &snapshot, nil
	}
	return nil, fmt.Errorf("entry %s carries no restore snapshot", entry.ID)
}
