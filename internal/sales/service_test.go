package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
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

func newSalesTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupSalesTestDB(t)
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
		corrSvc,
		dbClient,
		nil,
		nil,
	)
	require.NoError(t, err)
	return svc, conn
}

func mustCreateSale(t *testing.T, conn *gorm.DB, barcode, fullName, size, symbol string) *models.Sale {
	t.Helper()
	sale := &models.Sale{
		ID:           uuid.New(),
		FullName:     fullName,
		Size:         size,
		Barcode:      barcode,
		SellingPoint: "Punkt " + symbol,
		Symbol:       symbol,
		Timestamp:    time.Now().UTC(),
	}
	require.NoError(t, conn.Create(sale).Error)
	return sale
}

func TestProcessSalesDebitsStock(t *testing.T) {
	svc, conn := newSalesTestService(t)
	ctx := context.Background()

	record := &models.InventoryRecord{
		ID:       uuid.New(),
		FullName: "Kurtka zimowa",
		Size:     "M",
		Barcode:  "590111",
		Symbol:   "P",
		AddedAt:  time.Now().UTC(),
	}
	require.NoError(t, conn.Create(record).Error)
	sale := mustCreateSale(t, conn, "590111", "Kurtka zimowa", "M", "P")

	result, err := svc.ProcessSales(ctx, ProcessSalesInput{
		Items: []SaleItem{{
			SaleID:   &sale.ID,
			FullName: "Kurtka zimowa",
			Size:     "M",
			Barcode:  "590111",
			From:     "P",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Empty(t, result.Errors)

	// stock row gone
	var count int64
	require.NoError(t, conn.Model(&models.InventoryRecord{}).Where("id = ?", record.ID).Count(&count).Error)
	assert.Zero(t, count)

	// sale marked processed
	var updated models.Sale
	require.NoError(t, conn.First(&updated, "id = ?", sale.ID).Error)
	assert.True(t, updated.Processed)
	require.NotNil(t, updated.ProcessedAt)

	// ledger entry with restore snapshot
	var entries []models.HistoryEntry
	require.NoError(t, conn.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.HistoryOperationSaleOut, entries[0].Operation)
	assert.Equal(t, "P", entries[0].From)
	assert.Equal(t, enums.DestinationSold, entries[0].To)

	snapshot, err := history.SnapshotFrom(&entries[0])
	require.NoError(t, err)
	assert.Equal(t, "P", snapshot.Symbol)
	assert.Equal(t, sale.ID.String(), snapshot.SaleID)
}

func TestProcessSalesParksMissingStockAsCorrection(t *testing.T) {
	svc, conn := newSalesTestService(t)
	ctx := context.Background()

	result, err := svc.ProcessSales(ctx, ProcessSalesInput{
		Items: []SaleItem{{
			FullName: "Plaszcz",
			Size:     "L",
			Barcode:  "590222",
			From:     "T",
		}},
	})
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount)
	require.Len(t, result.Errors, 1)

	var correction models.Correction
	require.NoError(t, conn.First(&correction, "barcode = ?", "590222").Error)
	assert.Equal(t, enums.AttemptedOperationSale, correction.AttemptedOperation)
	assert.Equal(t, "T", correction.Symbol)
	assert.Contains(t, string(correction.OriginalData), `"isFromSale":true`)

	// sale-sourced corrections head to SPRZEDANO in the ledger
	var entry models.HistoryEntry
	require.NoError(t, conn.First(&entry, "operation = ?", enums.HistoryOperationMovedToCorrects).Error)
	assert.Equal(t, enums.DestinationSold, entry.To)
}

func TestProcessSalesPartialBatch(t *testing.T) {
	svc, conn := newSalesTestService(t)
	ctx := context.Background()

	require.NoError(t, conn.Create(&models.InventoryRecord{
		ID:       uuid.New(),
		FullName: "Bluza",
		Size:     "XL",
		Barcode:  "590333",
		Symbol:   "K",
		AddedAt:  time.Now().UTC(),
	}).Error)

	result, err := svc.ProcessSales(ctx, ProcessSalesInput{
		TransactionID: "batch-1",
		Items: []SaleItem{
			{FullName: "Bluza", Size: "XL", Barcode: "590333", From: "K"},
			{FullName: "Nieznany", Size: "S", Barcode: "590999", From: "K"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "batch-1", result.TransactionID)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Equal(t, 2, result.TotalItems)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "590999")
}

func TestProcessSalesEmptyBatch(t *testing.T) {
	svc, _ := newSalesTestService(t)

	_, err := svc.ProcessSales(context.Background(), ProcessSalesInput{})
	require.Error(t, err)
}
