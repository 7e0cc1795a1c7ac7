package enums

// Destination labels used in history "to" fields when the target is not a
// selling point symbol.
const (
	// DestinationSold marks stock that left through a sale.
	DestinationSold = "SPRZEDANO"
	// DestinationCorrections is the bucket for stock parked in corrections.
	DestinationCorrections = "KOREKTY"
	// WarehouseSymbol is the selling-point code of the central warehouse.
	WarehouseSymbol = "MAGAZYN"
)
