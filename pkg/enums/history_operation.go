package enums

// HistoryOperation is the human-readable operation label stored on history
// entries. The Polish literals are load-bearing: operators and the admin UI
// filter on them, so they are kept verbatim from the legacy system.
type HistoryOperation string

const (
	HistoryOperationTransferOut      HistoryOperation = "Odpisano ze stanu (transfer)"
	HistoryOperationSaleOut          HistoryOperation = "Odpisano ze stanu (sprzedaż)"
	HistoryOperationWarehouseIn      HistoryOperation = "Dodano do stanu (z magazynu)"
	HistoryOperationIncomingTransfer HistoryOperation = "Dodano do stanu (transfer przychodzący)"
	HistoryOperationMovedToCorrects  HistoryOperation = "Przeniesiono do korekt"
	HistoryOperationWriteOff         HistoryOperation = "Usunięto ze stanu"
	HistoryOperationStateAdd         HistoryOperation = "Dodano do stanu"
)

// undoableHistoryOperations are the labels the undo workflow recognizes as
// the head of a restorable transaction.
var undoableHistoryOperations = []HistoryOperation{
	HistoryOperationTransferOut,
	HistoryOperationWarehouseIn,
	HistoryOperationIncomingTransfer,
	HistoryOperationSaleOut,
	HistoryOperationMovedToCorrects,
}

// IsUndoable reports whether a transaction headed by this operation can be
// reversed by the undo workflow.
func (o HistoryOperation) IsUndoable() bool {
	for _, candidate := range undoableHistoryOperations {
		if candidate == o {
			return true
		}
	}
	return false
}

// UndoableHistoryOperations returns the labels the undo lookup filters on.
func UndoableHistoryOperations() []HistoryOperation {
	out := make([]HistoryOperation, len(undoableHistoryOperations))
	copy(out, undoableHistoryOperations)
	return out
}
