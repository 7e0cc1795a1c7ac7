package transfers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/internal/sales"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
	"github.com/modena-retail/backoffice-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const dayFormat = "2006-01-02"

// Service processes transfer documents and drives the undo workflow.
type Service interface {
	ProcessTransfers(ctx context.Context, input ProcessTransfersInput) (*ProcessResult, error)
	ProcessWarehouseItems(ctx context.Context, input ProcessWarehouseInput) (*ProcessResult, error)
	UndoLastTransaction(ctx context.Context) (*UndoResult, error)
	ListUnprocessed(ctx context.Context) ([]models.Transfer, error)
}

// ProcessTransfersInput names the transfers to apply under one transaction tag.
type ProcessTransfersInput struct {
	TransferIDs   []uuid.UUID
	TransactionID string
}

// WarehouseItem is one unit to credit to a selling point.
type WarehouseItem struct {
	StateID       *uuid.UUID
	TransferID    *uuid.UUID
	FullName      string
	Size          string
	Barcode       string
	TransferTo    string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
}

// ProcessWarehouseInput carries a warehouse or incoming-transfer batch.
type ProcessWarehouseInput struct {
	Items              []WarehouseItem
	TransactionID      string
	IsIncomingTransfer bool
}

// ProcessResult summarizes a batch run; partial success is the norm.
type ProcessResult struct {
	TransactionID  string   `json:"transactionId"`
	ProcessedCount int      `json:"processedCount"`
	TotalItems     int      `json:"totalItems"`
	Errors         []string `json:"errors,omitempty"`
}

// RestoredItem describes one unit put back by undo.
type RestoredItem struct {
	FullName string `json:"fullName"`
	Size     string `json:"size,omitempty"`
	Barcode  string `json:"barcode,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Action   string `json:"action"`
}

// UndoResult reports the outcome of undoing the most recent transaction.
type UndoResult struct {
	TransactionID         string         `json:"transactionId"`
	RestoredCount         int            `json:"restoredCount"`
	RestoredItems         []RestoredItem `json:"restoredItems"`
	DeletedHistoryEntries int64          `json:"deletedHistoryEntries"`
	Errors                []string       `json:"errors,omitempty"`
}

type service struct {
	repo      Repository
	stateRepo state.Repository
	histRepo  history.Repository
	corrRepo  corrections.Repository
	corrSvc   corrections.Service
	salesRepo sales.Repository
	dbClient  *db.Client
	logg      *logger.Logger
	batch     *metrics.BatchMetrics
}

// NewService wires the transfer processing service.
func NewService(repo Repository, stateRepo state.Repository, histRepo history.Repository, corrRepo corrections.Repository, corrSvc corrections.Service, salesRepo sales.Repository, dbClient *db.Client, logg *logger.Logger, batch *metrics.BatchMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transfers repository required")
	}
	if stateRepo == nil {
		return nil, fmt.Errorf("state repository required")
	}
	if histRepo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if corrRepo == nil {
		return nil, fmt.Errorf("corrections repository required")
	}
	if corrSvc == nil {
		return nil, fmt.Errorf("corrections service required")
	}
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      repo,
		stateRepo: stateRepo,
		histRepo:  histRepo,
		corrRepo:  corrRepo,
		corrSvc:   corrSvc,
		salesRepo: salesRepo,
		dbClient:  dbClient,
		logg:      logg,
		batch:     batch,
	}, nil
}

func (s *service) ListUnprocessed(ctx context.Context) ([]models.Transfer, error) {
	transfers, err := s.repo.ListUnprocessed(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list unprocessed transfers")
	}
	return transfers, nil
}

// ProcessTransfers debits the SOURCE point of every transfer. The
// destination side is credited separately through the incoming-transfer
// flow; a transfer never touches its destination here.
func (s *service) ProcessTransfers(ctx context.Context, input ProcessTransfersInput) (*ProcessResult, error) {
	if len(input.TransferIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no transfers provided for processing")
	}

	transactionID := input.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	ctx = s.withTransactionLog(ctx, transactionID)

	started := time.Now()
	result := &ProcessResult{TransactionID: transactionID, TotalItems: len(input.TransferIDs)}
	var itemErrs error

	for _, transferID := range input.TransferIDs {
		if err := s.processOneTransfer(ctx, transferID, transactionID); err != nil {
			itemErrs = multierr.Append(itemErrs, err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.ProcessedCount++
	}

	s.batch.ObserveDuration("transfers", time.Since(started))
	s.batch.AddProcessed("transfers", result.ProcessedCount)
	s.batch.AddFailed("transfers", len(result.Errors))

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("processed %d/%d transfers", result.ProcessedCount, result.TotalItems))
	}
	return result, nil
}

func (s *service) processOneTransfer(ctx context.Context, transferID uuid.UUID, transactionID string) error {
	transfer, err := s.repo.GetByID(ctx, transferID)
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("transfer %s: not found", transferID)
		}
		return fmt.Errorf("transfer %s: %w", transferID, err)
	}

	record, err := s.findSourceRecord(ctx, transfer)
	if err != nil {
		if db.IsNotFound(err) {
			return s.parkTransferAsCorrection(ctx, transfer, transactionID)
		}
		return fmt.Errorf("transfer %s: %w", transferID, err)
	}

	snapshot := history.RestoreSnapshot{
		OriginalID:    record.ID.String(),
		FullName:      record.FullName,
		Size:          record.Size,
		Barcode:       record.Barcode,
		Symbol:        record.Symbol,
		Price:         record.Price,
		DiscountPrice: record.DiscountPrice,
		TransferID:    transfer.ID.String(),
		TransferFrom:  transfer.TransferFrom,
		TransferTo:    transfer.TransferTo,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("transfer %s: encode snapshot: %w", transferID, err)
	}

	now := time.Now().UTC()
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.stateRepo.WithTx(tx).Delete(ctx, record.ID); err != nil {
			return fmt.Errorf("transfer %s: delete state row: %w", transferID, err)
		}

		entry := &models.HistoryEntry{
			ID:             uuid.New(),
			CollectionName: "Stan",
			Operation:      enums.HistoryOperationTransferOut,
			From:           transfer.TransferFrom,
			To:             transfer.TransferTo,
			Product:        record.FullName,
			Size:           record.Size,
			Details:        fmt.Sprintf("Odpisano produkt ze stanu na podstawie transferu z %s do %s", transfer.TransferFrom, transfer.TransferTo),
			TransferFrom:   &transfer.TransferFrom,
			TransferTo:     &transfer.TransferTo,
			TransactionID:  &transactionID,
			OriginalData:   payload,
			Timestamp:      now,
		}
		if err := s.histRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return fmt.Errorf("transfer %s: insert history: %w", transferID, err)
		}

		if err := s.repo.WithTx(tx).SetProcessed(ctx, transfer.ID, true, &now); err != nil {
			return fmt.Errorf("transfer %s: mark processed: %w", transferID, err)
		}
		return nil
	})
}

// findSourceRecord locates the unit at the transfer's source point. The
// product id usually is the barcode, but transfer-sourced units can carry
// synthetic codes, so the (name, size) pair is the fallback.
func (s *service) findSourceRecord(ctx context.Context, transfer *models.Transfer) (*models.InventoryRecord, error) {
	barcode := transfer.Barcode
	if barcode == "" {
		barcode = transfer.ProductID
	}
	record, err := s.stateRepo.FindByBarcodeAndSymbol(ctx, barcode, transfer.TransferFrom)
	if err == nil {
		return record, nil
	}
	if !db.IsNotFound(err) {
		return nil, err
	}
	return s.stateRepo.FindByNameSizeAndSymbol(ctx, transfer.FullName, transfer.Size, transfer.TransferFrom)
}

// parkTransferAsCorrection records the missing unit as a correction and
// removes the blocked transfer. The original document snapshot travels on
// the correction so undo can recreate the transfer.
func (s *service) parkTransferAsCorrection(ctx context.Context, transfer *models.Transfer, transactionID string) error {
	original, err := json.Marshal(map[string]any{
		"isFromSale":     transfer.IsFromSale,
		"transfer_from":  transfer.TransferFrom,
		"transfer_to":    transfer.TransferTo,
		"advancePayment": transfer.AdvancePayment,
		"reason":         transfer.Reason,
		"date":           transfer.Date,
	})
	if err != nil {
		return fmt.Errorf("transfer %s: encode correction payload: %w", transfer.ID, err)
	}

	_, err = s.corrSvc.RecordCorrections(ctx, []corrections.RecordCorrectionInput{{
		FullName:           transfer.FullName,
		Size:               transfer.Size,
		Barcode:            transfer.ProductID,
		SellingPoint:       transfer.TransferFrom,
		Symbol:             transfer.TransferFrom,
		Description:        fmt.Sprintf("Brak pokrycia w stanie - transferu z punktu %s do punktu %s", transfer.TransferFrom, transfer.TransferTo),
		AttemptedOperation: enums.AttemptedOperationTransfer,
		TransactionID:      &transactionID,
		OriginalData:       original,
	}})
	if err != nil {
		return fmt.Errorf("transfer %s: record correction: %w", transfer.ID, err)
	}

	if err := s.repo.Delete(ctx, transfer.ID); err != nil {
		return fmt.Errorf("transfer %s: remove blocked transfer: %w", transfer.ID, err)
	}
	return fmt.Errorf("transfer %s: no stock at %s, moved to corrections", transfer.ProductID, transfer.TransferFrom)
}

// ProcessWarehouseItems credits destination points. Warehouse moves debit
// MAGAZYN first; incoming transfers only add, the source point was already
// debited when the transfer was processed.
func (s *service) ProcessWarehouseItems(ctx context.Context, input ProcessWarehouseInput) (*ProcessResult, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no warehouse items provided for processing")
	}

	transactionID := input.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	ctx = s.withTransactionLog(ctx, transactionID)

	started := time.Now()
	result := &ProcessResult{TransactionID: transactionID, TotalItems: len(input.Items)}

	for _, item := range input.Items {
		var err error
		if input.IsIncomingTransfer {
			err = s.creditIncomingTransfer(ctx, item, transactionID)
		} else {
			err = s.moveFromWarehouse(ctx, item, transactionID)
		}
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.ProcessedCount++
	}

	s.batch.ObserveDuration("warehouse", time.Since(started))
	s.batch.AddProcessed("warehouse", result.ProcessedCount)
	s.batch.AddFailed("warehouse", len(result.Errors))
	return result, nil
}

func (s *service) creditIncomingTransfer(ctx context.Context, item WarehouseItem, transactionID string) error {
	if item.TransferTo == "" {
		return fmt.Errorf("incoming item %s: destination symbol is required", item.FullName)
	}

	barcode := item.Barcode
	if barcode == "" {
		barcode = fmt.Sprintf("INCOMING_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:5])
	}

	now := time.Now().UTC()
	record := &models.InventoryRecord{
		ID:            uuid.New(),
		FullName:      item.FullName,
		Size:          item.Size,
		Barcode:       barcode,
		Symbol:        item.TransferTo,
		Price:         item.Price,
		DiscountPrice: item.DiscountPrice,
		AddedAt:       now,
	}

	snapshot := history.RestoreSnapshot{
		StateID:            record.ID.String(),
		FullName:           item.FullName,
		Size:               item.Size,
		Barcode:            barcode,
		Symbol:             item.TransferTo,
		IsIncomingTransfer: true,
	}
	if item.TransferID != nil {
		snapshot.TransferID = item.TransferID.String()
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("incoming item %s: encode snapshot: %w", item.FullName, err)
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.stateRepo.WithTx(tx).Create(ctx, record); err != nil {
			return fmt.Errorf("incoming item %s: insert state row: %w", item.FullName, err)
		}
		if item.TransferID != nil {
			if err := s.repo.WithTx(tx).SetProcessed(ctx, *item.TransferID, true, &now); err != nil {
				return fmt.Errorf("incoming item %s: mark transfer processed: %w", item.FullName, err)
			}
		}
		entry := &models.HistoryEntry{
			ID:             uuid.New(),
			CollectionName: "Stan",
			Operation:      enums.HistoryOperationIncomingTransfer,
			To:             item.TransferTo,
			Product:        item.FullName,
			Size:           item.Size,
			Details:        fmt.Sprintf("Dodano %s do stanu %s (transfer przychodzący)", item.FullName, item.TransferTo),
			TransactionID:  &transactionID,
			OriginalData:   payload,
			Timestamp:      now,
		}
		if err := s.histRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return fmt.Errorf("incoming item %s: insert history: %w", item.FullName, err)
		}
		return nil
	})
}

func (s *service) moveFromWarehouse(ctx context.Context, item WarehouseItem, transactionID string) error {
	if item.StateID == nil {
		return fmt.Errorf("warehouse item %s: state id is required", item.FullName)
	}
	if item.TransferTo == "" {
		return fmt.Errorf("warehouse item %s: destination symbol is required", item.FullName)
	}

	source, err := s.stateRepo.GetByID(ctx, *item.StateID)
	if err != nil {
		if db.IsNotFound(err) {
			return fmt.Errorf("warehouse item %s not found in database", item.StateID)
		}
		return fmt.Errorf("warehouse item %s: %w", item.StateID, err)
	}

	now := time.Now().UTC()
	record := &models.InventoryRecord{
		ID:            uuid.New(),
		FullName:      source.FullName,
		Size:          source.Size,
		Barcode:       source.Barcode,
		Symbol:        item.TransferTo,
		Price:         source.Price,
		DiscountPrice: source.DiscountPrice,
		AddedAt:       now,
	}

	snapshot := history.RestoreSnapshot{
		OriginalID:    source.ID.String(),
		StateID:       record.ID.String(),
		FullName:      source.FullName,
		Size:          source.Size,
		Barcode:       source.Barcode,
		Symbol:        item.TransferTo,
		Price:         source.Price,
		DiscountPrice: source.DiscountPrice,
		FromWarehouse: true,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("warehouse item %s: encode snapshot: %w", item.StateID, err)
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txState := s.stateRepo.WithTx(tx)
		deleted, err := txState.Delete(ctx, source.ID)
		if err != nil {
			return fmt.Errorf("warehouse item %s: remove from warehouse: %w", item.StateID, err)
		}
		if deleted == 0 {
			return fmt.Errorf("warehouse item %s not found in database", item.StateID)
		}
		if err := txState.Create(ctx, record); err != nil {
			return fmt.Errorf("warehouse item %s: insert state row: %w", item.StateID, err)
		}

		from := enums.WarehouseSymbol
		entry := &models.HistoryEntry{
			ID:             uuid.New(),
			CollectionName: "Stan",
			Operation:      enums.HistoryOperationWarehouseIn,
			From:           from,
			To:             item.TransferTo,
			Product:        source.FullName,
			Size:           source.Size,
			Details:        fmt.Sprintf("Przeniesiono %s (%s) z magazynu do %s", source.FullName, source.Barcode, item.TransferTo),
			TransferFrom:   &from,
			TransferTo:     &item.TransferTo,
			TransactionID:  &transactionID,
			OriginalData:   payload,
			Timestamp:      now,
		}
		if err := s.histRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return fmt.Errorf("warehouse item %s: insert history: %w", item.StateID, err)
		}
		return nil
	})
}

func (s *service) withTransactionLog(ctx context.Context, transactionID string) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithTransactionID(ctx, transactionID)
}

// UndoLastTransaction reverses the most recent undoable transaction. Each
// entry restores independently; failures accumulate instead of aborting
// the batch, and the transaction's history rows are deleted afterwards.
func (s *service) UndoLastTransaction(ctx context.Context) (*UndoResult, error) {
	latest, err := s.histRepo.LatestUndoable(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no recent transaction found to undo")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find last transaction")
	}

	transactionID := *latest.TransactionID
	ctx = s.withTransactionLog(ctx, transactionID)

	entries, err := s.histRepo.ListByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list transaction entries")
	}
	if len(entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no transaction entries found")
	}

	result := &UndoResult{TransactionID: transactionID}
	var itemErrs error

	for i := range entries {
		entry := &entries[i]
		restored, err := s.undoEntry(ctx, entry)
		if err != nil {
			itemErrs = multierr.Append(itemErrs, err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.RestoredItems = append(result.RestoredItems, *restored)
		result.RestoredCount++
	}

	deleted, err := s.histRepo.DeleteByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete transaction history")
	}
	result.DeletedHistoryEntries = deleted

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("undid transaction: restored %d items, deleted %d history entries", result.RestoredCount, deleted))
		if itemErrs != nil {
			s.logg.Error(ctx, "some items failed to restore", itemErrs)
		}
	}
	return result, nil
}

func (s *service) undoEntry(ctx context.Context, entry *models.HistoryEntry) (*RestoredItem, error) {
	switch entry.Operation {
	case enums.HistoryOperationWarehouseIn:
		return s.undoWarehouseAddition(ctx, entry)
	case enums.HistoryOperationIncomingTransfer:
		return s.undoIncomingTransfer(ctx, entry)
	case enums.HistoryOperationSaleOut:
		return s.undoSale(ctx, entry)
	case enums.HistoryOperationMovedToCorrects:
		return s.undoCorrection(ctx, entry)
	default:
		return s.undoTransferWriteOff(ctx, entry)
	}
}

// undoWarehouseAddition removes the credited unit and recreates it at the
// central warehouse.
func (s *service) undoWarehouseAddition(ctx context.Context, entry *models.HistoryEntry) (*RestoredItem, error) {
	snapshot, err := history.SnapshotFrom(entry)
	if err != nil {
		return nil, fmt.Errorf("warehouse undo: %w", err)
	}
	stateID, err := uuid.Parse(snapshot.StateID)
	if err != nil {
		return nil, fmt.Errorf("warehouse undo: invalid state id %q", snapshot.StateID)
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txState := s.stateRepo.WithTx(tx)
		if _, err := txState.Delete(ctx, stateID); err != nil {
			return fmt.Errorf("warehouse undo: delete state row: %w", err)
		}
		return txState.Create(ctx, &models.InventoryRecord{
			ID:            uuid.New(),
			FullName:      snapshot.FullName,
			Size:          snapshot.Size,
			Barcode:       snapshot.Barcode,
			Symbol:        enums.WarehouseSymbol,
			Price:         snapshot.Price,
			DiscountPrice: snapshot.DiscountPrice,
			AddedAt:       time.Now().UTC(),
		})
	}); err != nil {
		return nil, err
	}

	return &RestoredItem{
		FullName: snapshot.FullName,
		Size:     snapshot.Size,
		Barcode:  snapshot.Barcode,
		Symbol:   enums.WarehouseSymbol,
		Action:   "restored_to_warehouse",
	}, nil
}

// undoIncomingTransfer removes the credited unit and puts the transfer
// back on the unprocessed list.
func (s *service) undoIncomingTransfer(ctx context.Context, entry *models.HistoryEntry) (*RestoredItem, error) {
	snapshot, err := history.SnapshotFrom(entry)
	if err != nil {
		return nil, fmt.Errorf("incoming undo: %w", err)
	}
	stateID, err := uuid.Parse(snapshot.StateID)
	if err != nil {
		return nil, fmt.Errorf("incoming undo: invalid state id %q", snapshot.StateID)
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.stateRepo.WithTx(tx).Delete(ctx, stateID); err != nil {
			return fmt.Errorf("incoming undo: delete state row: %w", err)
		}
		if snapshot.TransferID != "" {
			transferID, err := uuid.Parse(snapshot.TransferID)
			if err != nil {
				return fmt.Errorf("incoming undo: invalid transfer id %q", snapshot.TransferID)
			}
			if err := s.repo.WithTx(tx).SetProcessed(ctx, transferID, false, nil); err != nil {
				return fmt.Errorf("incoming undo: reset transfer: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &RestoredItem{
		FullName: entry.Product,
		Size:     entry.Size,
		Barcode:  snapshot.Barcode,
		Action:   "restored_to_transfer_list",
	}, nil
}

// undoSale recreates the sold unit at the point it was sold from and
// marks the sale unprocessed.
func (s *service) undoSale(ctx context.Context, entry *models.HistoryEntry) (*RestoredItem, error) {
	snapshot, err := history.SnapshotFrom(entry)
	if err != nil {
		return nil, fmt.Errorf("sale undo: %w", err)
	}
	if snapshot.Symbol == "" {
		return nil, fmt.Errorf("sale undo: snapshot missing origin symbol")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.stateRepo.WithTx(tx).Create(ctx, &models.InventoryRecord{
			ID:            uuid.New(),
			FullName:      snapshot.FullName,
			Size:          snapshot.Size,
			Barcode:       snapshot.Barcode,
			Symbol:        snapshot.Symbol,
			Price:         snapshot.Price,
			DiscountPrice: snapshot.DiscountPrice,
			AddedAt:       time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("sale undo: restore state row: %w", err)
		}
		if snapshot.SaleID != "" {
			saleID, err := uuid.Parse(snapshot.SaleID)
			if err != nil {
				return fmt.Errorf("sale undo: invalid sale id %q", snapshot.SaleID)
			}
			if err := s.salesRepo.WithTx(tx).SetProcessed(ctx, saleID, false, nil); err != nil {
				return fmt.Errorf("sale undo: reset sale: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &RestoredItem{
		FullName: snapshot.FullName,
		Size:     snapshot.Size,
		Barcode:  snapshot.Barcode,
		Symbol:   snapshot.Symbol,
		Action:   "restored_from_sale",
	}, nil
}

// undoCorrection deletes the correction and recreates the originating
// document. The recreated unit always returns to the SOURCE side: the
// sale or transfer starts over from the point it was blocked at.
func (s *service) undoCorrection(ctx context.Context, entry *models.HistoryEntry) (*RestoredItem, error) {
	if entry.TransactionID == nil {
		return nil, fmt.Errorf("correction undo: entry has no transaction id")
	}

	correction, err := s.corrRepo.DeleteByProductAndTransaction(ctx, entry.Product, entry.Size, *entry.TransactionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, fmt.Errorf("correction undo: no correction for %s %s", entry.Product, entry.Size)
		}
		return nil, fmt.Errorf("correction undo: %w", err)
	}
	barcode := correction.Barcode

	var snapshot *history.RestoreSnapshot
	if len(entry.OriginalData) > 0 {
		snapshot, err = history.SnapshotFrom(entry)
		if err != nil {
			snapshot = nil
		}
	}

	if snapshot == nil {
		// correction originated in live stock, not a parked document
		if strings.Contains(entry.Details, "w ramach sprzedaży") {
			if err := s.recreateSale(ctx, entry, barcode, nil); err != nil {
				return nil, err
			}
		} else {
			if err := s.recreateBlockedTransfer(ctx, entry, barcode); err != nil {
				return nil, err
			}
		}
	} else if snapshot.IsFromSale {
		if err := s.recreateSale(ctx, entry, barcode, snapshot); err != nil {
			return nil, err
		}
	} else {
		if err := s.recreateTransfer(ctx, entry, barcode, snapshot); err != nil {
			return nil, err
		}
	}

	return &RestoredItem{
		FullName: entry.Product,
		Size:     entry.Size,
		Barcode:  barcode,
		Symbol:   history.SourceFor(entry),
		Action:   "restored_from_corrections",
	}, nil
}

func (s *service) recreateSale(ctx context.Context, entry *models.HistoryEntry, barcode string, snapshot *history.RestoreSnapshot) error {
	origin := history.SourceFor(entry)
	sale := &models.Sale{
		ID:           uuid.New(),
		FullName:     entry.Product,
		Size:         entry.Size,
		Barcode:      barcode,
		SellingPoint: origin,
		Symbol:       origin,
		Processed:    false,
		Timestamp:    time.Now().UTC(),
	}
	// an advance payment collected before the unit went missing returns as
	// the cash leg of the recreated sale
	if snapshot != nil && snapshot.AdvancePayment.Valid && !snapshot.AdvancePayment.Decimal.IsZero() {
		cash, err := json.Marshal([]map[string]any{{
			"price":    snapshot.AdvancePayment.Decimal,
			"currency": "PLN",
		}})
		if err != nil {
			return fmt.Errorf("correction undo: encode sale cash %s: %w", barcode, err)
		}
		sale.Cash = cash
	}
	if err := s.salesRepo.Create(ctx, sale); err != nil {
		return fmt.Errorf("correction undo: recreate sale %s: %w", barcode, err)
	}
	return nil
}

// recreateBlockedTransfer puts back a transfer whose correction carried no
// document snapshot. The destination resolves from the structured column,
// then the legacy details text, then the stored "to" symbol. Recreated
// transfers keep the sale-path flag so a later undo re-credits the origin.
func (s *service) recreateBlockedTransfer(ctx context.Context, entry *models.HistoryEntry, barcode string) error {
	destination := history.DestinationFor(entry)
	source := history.SourceFor(entry)
	now := time.Now().UTC()
	day := now.Format(dayFormat)

	// one pending transfer per product per day
	if existing, err := s.repo.FindByProductAndDay(ctx, barcode, day); err == nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return fmt.Errorf("correction undo: replace transfer %s: %w", barcode, err)
		}
	} else if !db.IsNotFound(err) {
		return fmt.Errorf("correction undo: check transfer %s: %w", barcode, err)
	}

	transfer := &models.Transfer{
		ID:                     uuid.New(),
		FullName:               entry.Product,
		Size:                   entry.Size,
		ProductID:              barcode,
		Barcode:                barcode,
		TransferFrom:           source,
		TransferTo:             destination,
		Date:                   now,
		DateString:             day,
		Processed:              false,
		IsFromSale:             true,
		AdvancePaymentCurrency: "PLN",
	}
	if err := s.repo.Create(ctx, transfer); err != nil {
		return fmt.Errorf("correction undo: recreate transfer %s: %w", barcode, err)
	}
	return nil
}

func (s *service) recreateTransfer(ctx context.Context, entry *models.HistoryEntry, barcode string, snapshot *history.RestoreSnapshot) error {
	source := snapshot.TransferFrom
	if source == "" {
		source = history.SourceFor(entry)
	}
	destination := snapshot.TransferTo
	if destination == "" {
		destination = history.DestinationFor(entry)
	}

	// the original document date wins over the undo date so the transfer
	// lands back on its day page
	date := time.Now().UTC()
	if snapshot.Date != nil {
		date = *snapshot.Date
	}
	transfer := &models.Transfer{
		ID:                     uuid.New(),
		FullName:               entry.Product,
		Size:                   entry.Size,
		ProductID:              barcode,
		Barcode:                barcode,
		TransferFrom:           source,
		TransferTo:             destination,
		Date:                   date,
		DateString:             date.Format(dayFormat),
		Processed:              false,
		Reason:                 snapshot.Reason,
		AdvancePayment:         snapshot.AdvancePayment,
		AdvancePaymentCurrency: "PLN",
	}
	if err := s.repo.Create(ctx, transfer); err != nil {
		return fmt.Errorf("correction undo: recreate transfer %s: %w", barcode, err)
	}
	return nil
}

// undoTransferWriteOff recreates the debited unit at the SOURCE point and
// resets the transfer. For a P→T transfer, undo restores P.
func (s *service) undoTransferWriteOff(ctx context.Context, entry *models.HistoryEntry) (*RestoredItem, error) {
	snapshot, err := history.SnapshotFrom(entry)
	if err != nil {
		return nil, fmt.Errorf("transfer undo: %w", err)
	}
	if snapshot.Symbol == "" {
		return nil, fmt.Errorf("transfer undo: snapshot missing source symbol")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.stateRepo.WithTx(tx).Create(ctx, &models.InventoryRecord{
			ID:            uuid.New(),
			FullName:      snapshot.FullName,
			Size:          snapshot.Size,
			Barcode:       snapshot.Barcode,
			Symbol:        snapshot.Symbol,
			Price:         snapshot.Price,
			DiscountPrice: snapshot.DiscountPrice,
			AddedAt:       time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("transfer undo: restore state row: %w", err)
		}
		if snapshot.TransferID != "" {
			transferID, err := uuid.Parse(snapshot.TransferID)
			if err != nil {
				return fmt.Errorf("transfer undo: invalid transfer id %q", snapshot.TransferID)
			}
			if err := s.repo.WithTx(tx).SetProcessed(ctx, transferID, false, nil); err != nil {
				return fmt.Errorf("transfer undo: reset transfer: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &RestoredItem{
		FullName: snapshot.FullName,
		Size:     snapshot.Size,
		Barcode:  snapshot.Barcode,
		Symbol:   snapshot.Symbol,
		Action:   "restored_to_state",
	}, nil
}
