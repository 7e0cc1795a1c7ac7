package transfers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/internal/sales"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
)

func setupTransfersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS states (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT,
  barcode TEXT NOT NULL,
  symbol TEXT NOT NULL,
  price NUMERIC,
  discount_price NUMERIC,
  added_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS transfers (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT,
  product_id TEXT NOT NULL,
  barcode TEXT,
  transfer_from TEXT NOT NULL,
  transfer_to TEXT NOT NULL,
  date DATETIME NOT NULL,
  date_string TEXT NOT NULL,
  processed INTEGER NOT NULL DEFAULT 0,
  processed_at DATETIME,
  is_from_sale INTEGER NOT NULL DEFAULT 0,
  reason TEXT,
  advance_payment NUMERIC,
  advance_payment_currency TEXT DEFAULT 'PLN',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_transfers_product_day UNIQUE (product_id, date_string)
);`,
		`CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT,
  barcode TEXT NOT NULL,
  selling_point TEXT NOT NULL,
  symbol TEXT NOT NULL,
  cash TEXT,
  card TEXT,
  processed INTEGER NOT NULL DEFAULT 0,
  processed_at DATETIME,
  timestamp DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS corrections (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT NOT NULL,
  barcode TEXT NOT NULL,
  selling_point TEXT NOT NULL,
  symbol TEXT NOT NULL,
  error_type TEXT NOT NULL,
  description TEXT,
  attempted_operation TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  original_price NUMERIC,
  discount_price NUMERIC,
  transaction_id TEXT,
  original_data TEXT,
  created_at DATETIME,
  resolved_at DATETIME,
  resolved_by TEXT
);`,
		`CREATE TABLE IF NOT EXISTS history (
  id TEXT PRIMARY KEY,
  collection_name TEXT NOT NULL,
  operation TEXT NOT NULL,
  from_symbol TEXT NOT NULL DEFAULT '-',
  to_symbol TEXT NOT NULL DEFAULT '-',
  product TEXT,
  size TEXT,
  details TEXT,
  transfer_from TEXT,
  transfer_to TEXT,
  transaction_id TEXT,
  original_data TEXT,
  timestamp DATETIME
);`,
	}
	for _, ddl := range statements {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}

func newTransfersTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupTransfersTestDB(t)
	dbClient := db.NewWithConn(conn)

	corrSvc, err := corrections.NewService(
		corrections.NewRepository(conn),
		history.NewRepository(conn),
		dbClient,
		nil,
		nil,
		0,
	)
	require.NoError(t, err)

	svc, err := NewService(
		NewRepository(conn),
		state.NewRepository(conn),
		history.NewRepository(conn),
		corrections.NewRepository(conn),
		corrSvc,
		sales.NewRepository(conn),
		dbClient,
		nil,
		nil,
	)
	require.NoError(t, err)
	return svc, conn
}

func mustCreateState(t *testing.T, conn *gorm.DB, barcode, fullName, size, symbol string) *models.InventoryRecord {
	t.Helper()
	record := &models.InventoryRecord{
		ID:       uuid.New(),
		FullName: fullName,
		Size:     size,
		Barcode:  barcode,
		Symbol:   symbol,
		AddedAt:  time.Now().UTC(),
	}
	require.NoError(t, conn.Create(record).Error)
	return record
}

func mustCreateTransfer(t *testing.T, conn *gorm.DB, barcode, fullName, size, from, to string) *models.Transfer {
	t.Helper()
	now := time.Now().UTC()
	transfer := &models.Transfer{
		ID:           uuid.New(),
		FullName:     fullName,
		Size:         size,
		ProductID:    barcode,
		Barcode:      barcode,
		TransferFrom: from,
		TransferTo:   to,
		Date:         now,
		DateString:   now.Format(dayFormat),
	}
	require.NoError(t, conn.Create(transfer).Error)
	return transfer
}

func countStatesAt(t *testing.T, conn *gorm.DB, barcode, symbol string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, conn.Model(&models.InventoryRecord{}).
		Where("barcode = ? AND symbol = ?", barcode, symbol).Count(&count).Error)
	return count
}

func TestProcessTransfersDebitsSource(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	mustCreateState(t, conn, "590111", "Kurtka zimowa", "M", "P")
	transfer := mustCreateTransfer(t, conn, "590111", "Kurtka zimowa", "M", "P", "T")

	result, err := svc.ProcessTransfers(ctx, ProcessTransfersInput{TransferIDs: []uuid.UUID{transfer.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.TransactionID)

	// source point debited, destination untouched
	assert.Zero(t, countStatesAt(t, conn, "590111", "P"))
	assert.Zero(t, countStatesAt(t, conn, "590111", "T"))

	var updated models.Transfer
	require.NoError(t, conn.First(&updated, "id = ?", transfer.ID).Error)
	assert.True(t, updated.Processed)
	require.NotNil(t, updated.ProcessedAt)

	var entries []models.HistoryEntry
	require.NoError(t, conn.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.HistoryOperationTransferOut, entries[0].Operation)
	assert.Equal(t, "P", entries[0].From)
	assert.Equal(t, "T", entries[0].To)
	require.NotNil(t, entries[0].TransferFrom)
	assert.Equal(t, "P", *entries[0].TransferFrom)
	require.NotNil(t, entries[0].TransactionID)
	assert.Equal(t, result.TransactionID, *entries[0].TransactionID)
}

func TestProcessTransfersParksMissingStockAsCorrection(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	transfer := mustCreateTransfer(t, conn, "590222", "Plaszcz", "L", "K", "OUTLET")

	result, err := svc.ProcessTransfers(ctx, ProcessTransfersInput{TransferIDs: []uuid.UUID{transfer.ID}})
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount)
	require.Len(t, result.Errors, 1)

	// blocked transfer removed, correction parked in its place
	var transferCount int64
	require.NoError(t, conn.Model(&models.Transfer{}).Count(&transferCount).Error)
	assert.Zero(t, transferCount)

	var correction models.Correction
	require.NoError(t, conn.First(&correction, "barcode = ?", "590222").Error)
	assert.Equal(t, enums.AttemptedOperationTransfer, correction.AttemptedOperation)
	assert.Equal(t, "K", correction.Symbol)
	assert.Contains(t, string(correction.OriginalData), `"transfer_to":"OUTLET"`)

	// ledger shows the move into corrections with the transfer destination
	var entry models.HistoryEntry
	require.NoError(t, conn.First(&entry, "operation = ?", enums.HistoryOperationMovedToCorrects).Error)
	assert.Equal(t, "OUTLET", entry.To)
}

func TestProcessWarehouseItemsMovesFromWarehouse(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	record := mustCreateState(t, conn, "590333", "Sukienka", "S", enums.WarehouseSymbol)

	result, err := svc.ProcessWarehouseItems(ctx, ProcessWarehouseInput{
		Items: []WarehouseItem{{
			StateID:    &record.ID,
			FullName:   "Sukienka",
			Size:       "S",
			Barcode:    "590333",
			TransferTo: "K",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)

	assert.Zero(t, countStatesAt(t, conn, "590333", enums.WarehouseSymbol))
	assert.EqualValues(t, 1, countStatesAt(t, conn, "590333", "K"))

	var entry models.HistoryEntry
	require.NoError(t, conn.First(&entry).Error)
	assert.Equal(t, enums.HistoryOperationWarehouseIn, entry.Operation)
	assert.Equal(t, enums.WarehouseSymbol, entry.From)
	assert.Equal(t, "K", entry.To)
}

func TestProcessWarehouseItemsCreditsIncomingTransfer(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	transfer := mustCreateTransfer(t, conn, "590444", "Spodnie", "32", "P", "T")

	result, err := svc.ProcessWarehouseItems(ctx, ProcessWarehouseInput{
		Items: []WarehouseItem{{
			TransferID: &transfer.ID,
			FullName:   "Spodnie",
			Size:       "32",
			TransferTo: "T",
		}},
		IsIncomingTransfer: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)

	// missing barcode gets a synthetic one
	var record models.InventoryRecord
	require.NoError(t, conn.First(&record, "symbol = ?", "T").Error)
	assert.Contains(t, record.Barcode, "INCOMING_")

	var updated models.Transfer
	require.NoError(t, conn.First(&updated, "id = ?", transfer.ID).Error)
	assert.True(t, updated.Processed)

	var entry models.HistoryEntry
	require.NoError(t, conn.First(&entry).Error)
	assert.Equal(t, enums.HistoryOperationIncomingTransfer, entry.Operation)
}

// A P→T transfer debits P; undoing it must restore P, never T.
func TestUndoTransferRestoresSourcePoint(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
	}{
		{"shop to shop", "P", "T"},
		{"shop to warehouse", "T", "M"},
		{"shop to outlet", "K", "OUTLET"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, conn := newTransfersTestService(t)
			ctx := context.Background()

			mustCreateState(t, conn, "590555", "Kurtka", "M", tc.from)
			transfer := mustCreateTransfer(t, conn, "590555", "Kurtka", "M", tc.from, tc.to)

			_, err := svc.ProcessTransfers(ctx, ProcessTransfersInput{TransferIDs: []uuid.UUID{transfer.ID}})
			require.NoError(t, err)
			require.Zero(t, countStatesAt(t, conn, "590555", tc.from))

			result, err := svc.UndoLastTransaction(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, result.RestoredCount)
			assert.EqualValues(t, 1, result.DeletedHistoryEntries)
			require.Len(t, result.RestoredItems, 1)
			assert.Equal(t, tc.from, result.RestoredItems[0].Symbol)
			assert.Equal(t, "restored_to_state", result.RestoredItems[0].Action)

			assert.EqualValues(t, 1, countStatesAt(t, conn, "590555", tc.from))
			assert.Zero(t, countStatesAt(t, conn, "590555", tc.to))

			var updated models.Transfer
			require.NoError(t, conn.First(&updated, "id = ?", transfer.ID).Error)
			assert.False(t, updated.Processed)

			var histCount int64
			require.NoError(t, conn.Model(&models.HistoryEntry{}).Count(&histCount).Error)
			assert.Zero(t, histCount)
		})
	}
}

func TestUndoWarehouseMoveRestoresWarehouse(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	record := mustCreateState(t, conn, "590666", "Sukienka", "S", enums.WarehouseSymbol)

	_, err := svc.ProcessWarehouseItems(ctx, ProcessWarehouseInput{
		Items: []WarehouseItem{{StateID: &record.ID, FullName: "Sukienka", Size: "S", TransferTo: "K"}},
	})
	require.NoError(t, err)

	result, err := svc.UndoLastTransaction(ctx)
	require.NoError(t, err)
	require.Len(t, result.RestoredItems, 1)
	assert.Equal(t, "restored_to_warehouse", result.RestoredItems[0].Action)

	assert.EqualValues(t, 1, countStatesAt(t, conn, "590666", enums.WarehouseSymbol))
	assert.Zero(t, countStatesAt(t, conn, "590666", "K"))
}

func TestUndoIncomingTransferResetsTransfer(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	transfer := mustCreateTransfer(t, conn, "590777", "Spodnie", "32", "P", "T")

	_, err := svc.ProcessWarehouseItems(ctx, ProcessWarehouseInput{
		Items: []WarehouseItem{{
			TransferID: &transfer.ID,
			FullName:   "Spodnie",
			Size:       "32",
			Barcode:    "590777",
			TransferTo: "T",
		}},
		IsIncomingTransfer: true,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, countStatesAt(t, conn, "590777", "T"))

	result, err := svc.UndoLastTransaction(ctx)
	require.NoError(t, err)
	require.Len(t, result.RestoredItems, 1)
	assert.Equal(t, "restored_to_transfer_list", result.RestoredItems[0].Action)

	assert.Zero(t, countStatesAt(t, conn, "590777", "T"))

	var updated models.Transfer
	require.NoError(t, conn.First(&updated, "id = ?", transfer.ID).Error)
	assert.False(t, updated.Processed)
}

func TestUndoCorrectionRecreatesBlockedTransfer(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	// a transfer K→OUTLET with no stock at K parks a correction
	transfer := mustCreateTransfer(t, conn, "590888", "Plaszcz", "L", "K", "OUTLET")
	_, err := svc.ProcessTransfers(ctx, ProcessTransfersInput{TransferIDs: []uuid.UUID{transfer.ID}})
	require.NoError(t, err)

	var correctionCount int64
	require.NoError(t, conn.Model(&models.Correction{}).Count(&correctionCount).Error)
	require.EqualValues(t, 1, correctionCount)

	result, err := svc.UndoLastTransaction(ctx)
	require.NoError(t, err)
	require.Len(t, result.RestoredItems, 1)
	assert.Equal(t, "restored_from_corrections", result.RestoredItems[0].Action)

	// correction gone, transfer document back with its original route
	require.NoError(t, conn.Model(&models.Correction{}).Count(&correctionCount).Error)
	assert.Zero(t, correctionCount)

	var recreated models.Transfer
	require.NoError(t, conn.First(&recreated, "product_id = ?", "590888").Error)
	assert.Equal(t, "K", recreated.TransferFrom)
	assert.Equal(t, "OUTLET", recreated.TransferTo)
	assert.False(t, recreated.Processed)
}

func TestUndoCorrectionWithLegacyDetailsFallsBackToRegex(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	transactionID := "legacy-txn-1"
	correction := &models.Correction{
		ID:                 uuid.New(),
		FullName:           "Kurtka stara",
		Size:               "M",
		Barcode:            "590999",
		SellingPoint:       "P",
		Symbol:             "P",
		ErrorType:          enums.CorrectionErrorMissingInState,
		AttemptedOperation: enums.AttemptedOperationTransfer,
		Status:             enums.CorrectionStatusPending,
		TransactionID:      &transactionID,
	}
	require.NoError(t, conn.Create(correction).Error)

	// old-format entry: destination only recoverable from the details text
	entry := &models.HistoryEntry{
		ID:             uuid.New(),
		CollectionName: "Korekty",
		Operation:      enums.HistoryOperationMovedToCorrects,
		From:           "P",
		To:             "KOREKTY",
		Product:        "Kurtka stara",
		Size:           "M",
		Details:        "Brak pokrycia w stanie - transferu z punktu P do punktu T",
		TransactionID:  &transactionID,
		Timestamp:      time.Now().UTC(),
	}
	require.NoError(t, conn.Create(entry).Error)

	result, err := svc.UndoLastTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RestoredCount)

	var recreated models.Transfer
	require.NoError(t, conn.First(&recreated, "product_id = ?", "590999").Error)
	assert.Equal(t, "P", recreated.TransferFrom)
	assert.Equal(t, "T", recreated.TransferTo)
	assert.True(t, recreated.IsFromSale)
}

func TestUndoCorrectionRecreatesSale(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	transactionID := "sale-txn-1"
	correction := &models.Correction{
		ID:                 uuid.New(),
		FullName:           "Bluza",
		Size:               "XL",
		Barcode:            "591000",
		SellingPoint:       "T",
		Symbol:             "T",
		ErrorType:          enums.CorrectionErrorMissingInState,
		AttemptedOperation: enums.AttemptedOperationSale,
		Status:             enums.CorrectionStatusPending,
		TransactionID:      &transactionID,
	}
	require.NoError(t, conn.Create(correction).Error)

	entry := &models.HistoryEntry{
		ID:             uuid.New(),
		CollectionName: "Korekty",
		Operation:      enums.HistoryOperationMovedToCorrects,
		From:           "T",
		To:             "SPRZEDANO",
		Product:        "Bluza",
		Size:           "XL",
		Details:        "Brak pokrycia w stanie - w ramach sprzedaży",
		TransactionID:  &transactionID,
		Timestamp:      time.Now().UTC(),
	}
	require.NoError(t, conn.Create(entry).Error)

	result, err := svc.UndoLastTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RestoredCount)

	var sale models.Sale
	require.NoError(t, conn.First(&sale, "barcode = ?", "591000").Error)
	assert.Equal(t, "T", sale.Symbol)
	assert.False(t, sale.Processed)
}

func TestUndoCorrectionRestoresTransferAdvancePayment(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	// the blocked transfer carries a customer advance and a reason
	transfer := mustCreateTransfer(t, conn, "591100", "Sukienka", "S", "K", "OUTLET")
	reason := "zaliczka klienta"
	transfer.Reason = &reason
	transfer.AdvancePayment = decimal.NewNullDecimal(decimal.NewFromInt(150))
	require.NoError(t, conn.Save(transfer).Error)
	originalDay := transfer.DateString

	_, err := svc.ProcessTransfers(ctx, ProcessTransfersInput{TransferIDs: []uuid.UUID{transfer.ID}})
	require.NoError(t, err)

	result, err := svc.UndoLastTransaction(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.RestoredCount)

	var recreated models.Transfer
	require.NoError(t, conn.First(&recreated, "product_id = ?", "591100").Error)
	require.True(t, recreated.AdvancePayment.Valid)
	assert.True(t, recreated.AdvancePayment.Decimal.Equal(decimal.NewFromInt(150)))
	require.NotNil(t, recreated.Reason)
	assert.Equal(t, "zaliczka klienta", *recreated.Reason)
	assert.Equal(t, originalDay, recreated.DateString)
}

func TestUndoCorrectionRestoresSaleCashFromAdvance(t *testing.T) {
	svc, conn := newTransfersTestService(t)
	ctx := context.Background()

	transactionID := "sale-adv-txn-1"
	correction := &models.Correction{
		ID:                 uuid.New(),
		FullName:           "Torebka",
		Size:               "-",
		Barcode:            "591200",
		SellingPoint:       "M",
		Symbol:             "M",
		ErrorType:          enums.CorrectionErrorMissingInState,
		AttemptedOperation: enums.AttemptedOperationSale,
		Status:             enums.CorrectionStatusPending,
		TransactionID:      &transactionID,
	}
	require.NoError(t, conn.Create(correction).Error)

	entry := &models.HistoryEntry{
		ID:             uuid.New(),
		CollectionName: "Korekty",
		Operation:      enums.HistoryOperationMovedToCorrects,
		From:           "M",
		To:             "SPRZEDANO",
		Product:        "Torebka",
		Size:           "-",
		Details:        "Brak pokrycia w stanie - w ramach sprzedaży",
		OriginalData:   []byte(`{"isFromSale":true,"advancePayment":"250"}`),
		TransactionID:  &transactionID,
		Timestamp:      time.Now().UTC(),
	}
	require.NoError(t, conn.Create(entry).Error)

	result, err := svc.UndoLastTransaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RestoredCount)

	var sale models.Sale
	require.NoError(t, conn.First(&sale, "barcode = ?", "591200").Error)
	var cash []struct {
		Price    decimal.Decimal `json:"price"`
		Currency string          `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(sale.Cash, &cash))
	require.Len(t, cash, 1)
	assert.True(t, cash[0].Price.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "PLN", cash[0].Currency)
}

func TestUndoWithNothingToUndo(t *testing.T) {
	svc, _ := newTransfersTestService(t)

	_, err := svc.UndoLastTransaction(context.Background())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
