package enums

import "fmt"

// AttemptedOperation records which stock-affecting flow raised a correction.
type AttemptedOperation string

const (
	AttemptedOperationWriteOff AttemptedOperation = "WRITE_OFF"
	AttemptedOperationTransfer AttemptedOperation = "TRANSFER"
	AttemptedOperationSale     AttemptedOperation = "SALE"
	AttemptedOperationOther    AttemptedOperation = "OTHER"
)

var validAttemptedOperations = []AttemptedOperation{
	AttemptedOperationWriteOff,
	AttemptedOperationTransfer,
	AttemptedOperationSale,
	AttemptedOperationOther,
}

// IsValid reports whether the value matches the canonical operation enum.
func (o AttemptedOperation) IsValid() bool {
	for _, candidate := range validAttemptedOperations {
		if candidate == o {
			return true
		}
	}
	return false
}

// SupportsLocateAssistant reports whether the locate-and-write-off flow
// applies. Stock-count corrections have no "other location" concept.
func (o AttemptedOperation) SupportsLocateAssistant() bool {
	return o == AttemptedOperationSale || o == AttemptedOperationTransfer
}

// ParseAttemptedOperation converts raw input into AttemptedOperation.
func ParseAttemptedOperation(value string) (AttemptedOperation, error) {
	for _, candidate := range validAttemptedOperations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attempted operation %q", value)
}
