package enums

import "fmt"

// CorrectionStatus is the lifecycle state of a correction row.
type CorrectionStatus string

const (
	CorrectionStatusPending  CorrectionStatus = "PENDING"
	CorrectionStatusResolved CorrectionStatus = "RESOLVED"
	CorrectionStatusIgnored  CorrectionStatus = "IGNORED"
)

var validCorrectionStatuses = []CorrectionStatus{
	CorrectionStatusPending,
	CorrectionStatusResolved,
	CorrectionStatusIgnored,
}

// IsValid reports whether the value matches the canonical status enum.
func (s CorrectionStatus) IsValid() bool {
	for _, candidate := range validCorrectionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the status machine allows moving to next.
// PENDING is reachable from every state and re-applying the current status
// is always allowed (setting PENDING on an already-pending correction still
// clears its resolution trail). RESOLVED and IGNORED are only reachable
// from PENDING, never from each other.
func (s CorrectionStatus) CanTransitionTo(next CorrectionStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s == next || next == CorrectionStatusPending {
		return true
	}
	return s == CorrectionStatusPending
}

// ParseCorrectionStatus converts raw input into CorrectionStatus.
func ParseCorrectionStatus(value string) (CorrectionStatus, error) {
	for _, candidate := range validCorrectionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid correction status %q", value)
}
