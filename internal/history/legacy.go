package history

import (
	"regexp"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
)

// Older rows carry the transfer destination only inside free-text details
// written by the previous system, e.g.
// "Brak pokrycia w stanie - transferu z punktu P do punktu T".
var legacyTransferRe = regexp.MustCompile(`transferu z punktu \w+ do punktu (\w+)`)

// ParseLegacyDestination extracts the transfer destination symbol from a
// legacy details string. The second return reports whether a destination
// was found.
func ParseLegacyDestination(details string) (string, bool) {
	match := legacyTransferRe.FindStringSubmatch(details)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// DestinationFor resolves the transfer destination of a history entry.
// Structured columns win; the legacy details parser is the fallback; the
// stored "to" symbol is the last resort.
func DestinationFor(entry *models.HistoryEntry) string {
	if entry.TransferTo != nil && *entry.TransferTo != "" {
		return *entry.TransferTo
	}
	if destination, ok := ParseLegacyDestination(entry.Details); ok {
		return destination
	}
	return entry.To
}

// SourceFor resolves the transfer source of a history entry, preferring
// the structured column over the stored "from" symbol.
func SourceFor(entry *models.HistoryEntry) string {
	if entry.TransferFrom != nil && *entry.TransferFrom != "" {
		return *entry.TransferFrom
	}
	return entry.From
}
