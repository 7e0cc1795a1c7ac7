package enums

import "fmt"

// CorrectionErrorType classifies why an attempted stock operation failed.
type CorrectionErrorType string

const (
	CorrectionErrorMissingInState CorrectionErrorType = "MISSING_IN_STATE"
	CorrectionErrorDoubleEntry    CorrectionErrorType = "DOUBLE_ENTRY"
	CorrectionErrorWrongLocation  CorrectionErrorType = "WRONG_LOCATION"
	CorrectionErrorOther          CorrectionErrorType = "OTHER"
)

var validCorrectionErrorTypes = []CorrectionErrorType{
	CorrectionErrorMissingInState,
	CorrectionErrorDoubleEntry,
	CorrectionErrorWrongLocation,
	CorrectionErrorOther,
}

// IsValid reports whether the value matches the canonical error type enum.
func (t CorrectionErrorType) IsValid() bool {
	for _, candidate := range validCorrectionErrorTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseCorrectionErrorType converts raw input into CorrectionErrorType.
func ParseCorrectionErrorType(value string) (CorrectionErrorType, error) {
	for _, candidate := range validCorrectionErrorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid correction error type %q", value)
}
