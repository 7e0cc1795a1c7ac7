package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
	"github.com/modena-retail/backoffice-backend/pkg/metrics"
)

// Service processes sale documents against inventory.
type Service interface {
	ProcessSales(ctx context.Context, input ProcessSalesInput) (*ProcessResult, error)
	ListUnprocessed(ctx context.Context) ([]models.Sale, error)
}

// SaleItem identifies one sold unit to debit from a selling point.
type SaleItem struct {
	SaleID   *uuid.UUID
	FullName string
	Size     string
	Barcode  string
	From     string
}

// ProcessSalesInput carries the batch plus its transaction tag.
type ProcessSalesInput struct {
	Items         []SaleItem
	TransactionID string
}

// ProcessResult summarizes a batch run. Partial success is the norm:
// failed items land in Errors (and usually in corrections), the rest are
// applied.
type ProcessResult struct {
	TransactionID  string   `json:"transactionId"`
	ProcessedCount int      `json:"processedCount"`
	TotalItems     int      `json:"totalItems"`
	Errors         []string `json:"errors,omitempty"`
}

type service struct {
	repo      Repository
	stateRepo state.Repository
	histRepo  history.Repository
	corrSvc   corrections.Service
	dbClient  *db.Client
	logg      *logger.Logger
	batch     *metrics.BatchMetrics
}

// NewService wires the sales processing service.
func NewService(repo Repository, stateRepo state.Repository, histRepo history.Repository, corrSvc corrections.Service, dbClient *db.Client, logg *logger.Logger, batch *metrics.BatchMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if stateRepo == nil {
		return nil, fmt.Errorf("state repository required")
	}
	if histRepo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if corrSvc == nil {
		return nil, fmt.Errorf("corrections service required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:      repo,
		stateRepo: stateRepo,
		histRepo:  histRepo,
		corrSvc:   corrSvc,
		dbClient:  dbClient,
		logg:      logg,
		batch:     batch,
	}, nil
}

func (s *service) ListUnprocessed(ctx context.Context) ([]models.Sale, error) {
	sales, err := s.repo.ListUnprocessed(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list unprocessed sales")
	}
	return sales, nil
}

// ProcessSales debits one inventory record per sold item. Items without
// stock coverage are parked as corrections instead of failing the batch.
func (s *service) ProcessSales(ctx context.Context, input ProcessSalesInput) (*ProcessResult, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no sales items provided for processing")
	}

	transactionID := input.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	ctx = s.withTransactionLog(ctx, transactionID)

	started := time.Now()
	result := &ProcessResult{TransactionID: transactionID, TotalItems: len(input.Items)}
	var itemErrs error

	for _, item := range input.Items {
		if err := s.processOne(ctx, item, transactionID); err != nil {
			itemErrs = multierr.Append(itemErrs, err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.ProcessedCount++
	}

	s.batch.ObserveDuration("sales", time.Since(started))
	s.batch.AddProcessed("sales", result.ProcessedCount)
	s.batch.AddFailed("sales", len(result.Errors))

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("processed %d/%d sales", result.ProcessedCount, result.TotalItems))
		if itemErrs != nil {
			s.logg.Warn(ctx, fmt.Sprintf("sales batch finished with %d failed items", len(result.Errors)))
		}
	}
	return result, nil
}

func (s *service) processOne(ctx context.Context, item SaleItem, transactionID string) error {
	record, err := s.stateRepo.FindByBarcodeAndSymbol(ctx, item.Barcode, item.From)
	if err != nil {
		if db.IsNotFound(err) {
			return s.parkAsCorrection(ctx, item, transactionID)
		}
		return fmt.Errorf("sale %s: %w", item.Barcode, err)
	}

	snapshot := history.RestoreSnapshot{
		OriginalID:    record.ID.String(),
		FullName:      record.FullName,
		Size:          record.Size,
		Barcode:       record.Barcode,
		Symbol:        record.Symbol,
		Price:         record.Price,
		DiscountPrice: record.DiscountPrice,
	}
	if item.SaleID != nil {
		snapshot.SaleID = item.SaleID.String()
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("sale %s: encode snapshot: %w", item.Barcode, err)
	}

	now := time.Now().UTC()
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.stateRepo.WithTx(tx).Delete(ctx, record.ID); err != nil {
			return fmt.Errorf("sale %s: delete state row: %w", item.Barcode, err)
		}

		entry := &models.HistoryEntry{
			ID:             uuid.New(),
			CollectionName: "Stan",
			Operation:      enums.HistoryOperationSaleOut,
			From:           record.Symbol,
			To:             enums.DestinationSold,
			Product:        record.FullName,
			Size:           record.Size,
			Details:        fmt.Sprintf("Sprzedano %s (%s) z punktu %s", record.FullName, record.Barcode, record.Symbol),
			TransactionID:  &transactionID,
			OriginalData:   payload,
			Timestamp:      now,
		}
		if err := s.histRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return fmt.Errorf("sale %s: insert history: %w", item.Barcode, err)
		}

		if item.SaleID != nil {
			if err := s.repo.WithTx(tx).SetProcessed(ctx, *item.SaleID, true, &now); err != nil {
				return fmt.Errorf("sale %s: mark processed: %w", item.Barcode, err)
			}
		}
		return nil
	})
}

// parkAsCorrection records a MISSING_IN_STATE correction for a sold item
// that has no stock coverage. The snapshot marks it as sale-sourced so a
// later undo re-credits the origin.
func (s *service) parkAsCorrection(ctx context.Context, item SaleItem, transactionID string) error {
	original, err := json.Marshal(map[string]any{"isFromSale": true})
	if err != nil {
		return fmt.Errorf("sale %s: encode correction payload: %w", item.Barcode, err)
	}

	_, err = s.corrSvc.RecordCorrections(ctx, []corrections.RecordCorrectionInput{{
		FullName:           item.FullName,
		Size:               item.Size,
		Barcode:            item.Barcode,
		SellingPoint:       item.From,
		Symbol:             item.From,
		Description:        fmt.Sprintf("Brak produktu %s w stanie %s w ramach sprzedaży", item.Barcode, item.From),
		AttemptedOperation: enums.AttemptedOperationSale,
		TransactionID:      &transactionID,
		OriginalData:       original,
	}})
	if err != nil {
		return fmt.Errorf("sale %s: record correction: %w", item.Barcode, err)
	}
	return fmt.Errorf("sale %s: item not found in state %s, moved to corrections", item.Barcode, item.From)
}

func (s *service) withTransactionLog(ctx context.Context, transactionID string) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithTransactionID(ctx, transactionID)
}
