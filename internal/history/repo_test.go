package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
)

func setupHistoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS history (
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
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func insertEntry(t *testing.T, repo Repository, operation enums.HistoryOperation, transactionID string, ts time.Time) *models.HistoryEntry {
	t.Helper()
	entry := &models.HistoryEntry{
		ID:             uuid.New(),
		CollectionName: "Stan",
		Operation:      operation,
		From:           "P",
		To:             "T",
		Product:        "Kurtka zimowa",
		Size:           "M",
		Timestamp:      ts,
	}
	if transactionID != "" {
		entry.TransactionID = &transactionID
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	return entry
}

func TestLatestUndoablePicksNewestTaggedEntry(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insertEntry(t, repo, enums.HistoryOperationTransferOut, "tx-old", base)
	// newer but not undoable
	insertEntry(t, repo, enums.HistoryOperationStateAdd, "tx-add", base.Add(2*time.Hour))
	// newer but missing transaction id
	insertEntry(t, repo, enums.HistoryOperationSaleOut, "", base.Add(3*time.Hour))
	want := insertEntry(t, repo, enums.HistoryOperationMovedToCorrects, "tx-new", base.Add(time.Hour))

	got, err := repo.LatestUndoable(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "tx-new", *got.TransactionID)
}

func TestListByTransactionIDReturnsAllEntries(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insertEntry(t, repo, enums.HistoryOperationSaleOut, "tx-1", base)
	insertEntry(t, repo, enums.HistoryOperationSaleOut, "tx-1", base.Add(time.Minute))
	insertEntry(t, repo, enums.HistoryOperationSaleOut, "tx-2", base)

	entries, err := repo.ListByTransactionID(ctx, "tx-1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDeleteByTransactionIDRemovesWholeTransaction(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	insertEntry(t, repo, enums.HistoryOperationTransferOut, "tx-del", base)
	insertEntry(t, repo, enums.HistoryOperationTransferOut, "tx-del", base.Add(time.Minute))
	keep := insertEntry(t, repo, enums.HistoryOperationTransferOut, "tx-keep", base)

	deleted, err := repo.DeleteByTransactionID(ctx, "tx-del")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	remaining, err := repo.ListByTransactionID(ctx, "tx-keep")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, keep.ID, remaining[0].ID)
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := setupHistoryTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertEntry(t, repo, enums.HistoryOperationSaleOut, "tx-list", base.Add(time.Duration(i)*time.Minute))
	}

	page, err := repo.List(ctx, ListFilter{TransactionID: "tx-list"}, nil, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	// newest first
	assert.True(t, page[0].Timestamp.After(page[1].Timestamp))

	filtered, err := repo.List(ctx, ListFilter{Operation: string(enums.HistoryOperationTransferOut)}, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}
