package enums

import "fmt"

// WriteOffType distinguishes why an inventory record is being removed.
type WriteOffType string

const (
	WriteOffTypeDelete            WriteOffType = "delete"
	WriteOffTypeTransferSame      WriteOffType = "transfer-same"
	WriteOffTypeTransferWarehouse WriteOffType = "transfer-from-magazyn"
)

var validWriteOffTypes = []WriteOffType{
	WriteOffTypeDelete,
	WriteOffTypeTransferSame,
	WriteOffTypeTransferWarehouse,
}

// IsValid reports whether the value matches the canonical write-off enum.
func (t WriteOffType) IsValid() bool {
	for _, candidate := range validWriteOffTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// HistoryOperation maps the write-off type onto its ledger label.
func (t WriteOffType) HistoryOperation() HistoryOperation {
	switch t {
	case WriteOffTypeDelete:
		return HistoryOperationWriteOff
	case WriteOffTypeTransferSame:
		return "Przeniesiono w ramach stanu"
	default:
		return "Przesunięto ze stanu"
	}
}

// ParseWriteOffType converts raw input into WriteOffType.
func ParseWriteOffType(value string) (WriteOffType, error) {
	for _, candidate := range validWriteOffTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid write-off type %q", value)
}
