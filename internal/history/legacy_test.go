package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
)

func TestParseLegacyDestination(t *testing.T) {
	cases := []struct {
		name    string
		details string
		want    string
		found   bool
	}{
		{
			name:    "standard transfer sentence",
			details: "Brak pokrycia w stanie - transferu z punktu P do punktu T",
			want:    "T",
			found:   true,
		},
		{
			name:    "multi-character symbols",
			details: "Brak pokrycia w stanie - transferu z punktu KROSNO do punktu OUTLET2",
			want:    "OUTLET2",
			found:   true,
		},
		{
			name:    "underscore symbols",
			details: "transferu z punktu MAG_A do punktu MAG_B",
			want:    "MAG_B",
			found:   true,
		},
		{
			name:    "sale details do not match",
			details: "Brak pokrycia w stanie - produkt sprzedany w ramach sprzedaży",
			found:   false,
		},
		{
			name:    "empty details",
			details: "",
			found:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLegacyDestination(tc.details)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDestinationForPrefersStructuredColumn(t *testing.T) {
	to := "OUTLET"
	entry := &models.HistoryEntry{
		To:         "KOREKTY",
		Details:    "transferu z punktu P do punktu T",
		TransferTo: &to,
	}
	assert.Equal(t, "OUTLET", DestinationFor(entry))
}

func TestDestinationForFallsBackToLegacyParse(t *testing.T) {
	entry := &models.HistoryEntry{
		To:      "KOREKTY",
		Details: "Brak pokrycia w stanie - transferu z punktu P do punktu T",
	}
	assert.Equal(t, "T", DestinationFor(entry))
}

func TestDestinationForFallsBackToStoredTo(t *testing.T) {
	entry := &models.HistoryEntry{
		To:      "KOREKTY",
		Details: "no transfer info here",
	}
	assert.Equal(t, "KOREKTY", DestinationFor(entry))
}

func TestSourceForPrefersStructuredColumn(t *testing.T) {
	from := "P"
	assert.Equal(t, "P", SourceFor(&models.HistoryEntry{From: "X", TransferFrom: &from}))
	assert.Equal(t, "X", SourceFor(&models.HistoryEntry{From: "X"}))
}
