package state

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

// Service exposes inventory lookups and the correction-driven write-off.
type Service interface {
	List(ctx context.Context) ([]models.InventoryRecord, error)
	ListBySymbol(ctx context.Context, symbol string) ([]models.InventoryRecord, error)
	LocateMatches(ctx context.Context, correctionID uuid.UUID) (*LocateResult, error)
	WriteOff(ctx context.Context, input WriteOffInput) (*WriteOffResult, error)
}

// LocationMatch is the set of matching records at one selling point.
type LocationMatch struct {
	Symbol  string                   `json:"symbol"`
	Count   int                      `json:"count"`
	Records []models.InventoryRecord `json:"records"`
}

// LocateResult carries the locate-assistant answer for one correction.
type LocateResult struct {
	Correction *models.Correction `json:"correction"`
	Locations  []LocationMatch    `json:"locations"`
}

// WriteOffInput identifies the record to remove and the correction it
// resolves. The correction linkage travels in the body, not in headers.
type WriteOffInput struct {
	Barcode                 string
	Symbol                  string
	OperationType           enums.WriteOffType
	CorrectionID            *uuid.UUID
	CorrectionTransactionID *string
	ResolvedBy              *string
}

// WriteOffResult reports what was removed and which correction closed.
type WriteOffResult struct {
	Removed      *models.InventoryRecord `json:"removed"`
	CorrectionID *uuid.UUID              `json:"correctionId,omitempty"`
}

type service struct {
	repo     Repository
	corrRepo corrections.Repository
	histRepo history.Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService wires the inventory service.
func NewService(repo Repository, corrRepo corrections.Repository, histRepo history.Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("state repository required")
	}
	if corrRepo == nil {
		return nil, fmt.Errorf("corrections repository required")
	}
	if histRepo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, corrRepo: corrRepo, histRepo: histRepo, dbClient: dbClient, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]models.InventoryRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory")
	}
	return records, nil
}

func (s *service) ListBySymbol(ctx context.Context, symbol string) ([]models.InventoryRecord, error) {
	if symbol == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "symbol is required")
	}
	records, err := s.repo.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory by symbol")
	}
	return records, nil
}

// LocateMatches searches every selling point for stock that matches the
// correction's product. Offered only for sale and transfer corrections;
// write-offs have no "the unit is somewhere else" hypothesis to test.
func (s *service) LocateMatches(ctx context.Context, correctionID uuid.UUID) (*LocateResult, error) {
	correction, err := s.corrRepo.GetByID(ctx, correctionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "correction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load correction")
	}

	if !correction.AttemptedOperation.SupportsLocateAssistant() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("locate assistant is not available for %s corrections", correction.AttemptedOperation))
	}

	records, err := s.repo.FindMatches(ctx, correction.Barcode, correction.FullName, correction.Size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: locate matches")
	}

	grouped := make(map[string][]models.InventoryRecord)
	order := make([]string, 0)
	for _, record := range records {
		if _, seen := grouped[record.Symbol]; !seen {
			order = append(order, record.Symbol)
		}
		grouped[record.Symbol] = append(grouped[record.Symbol], record)
	}

	locations := make([]LocationMatch, 0, len(order))
	for _, symbol := range order {
		locations = append(locations, LocationMatch{
			Symbol:  symbol,
			Count:   len(grouped[symbol]),
			Records: grouped[symbol],
		})
	}

	return &LocateResult{Correction: correction, Locations: locations}, nil
}

// WriteOff removes one inventory record, appends the matching history
// entry, and resolves the linked correction in a single transaction.
func (s *service) WriteOff(ctx context.Context, input WriteOffInput) (*WriteOffResult, error) {
	if input.Barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if input.Symbol == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "symbol is required")
	}
	operationType := input.OperationType
	if operationType == "" {
		operationType = enums.WriteOffTypeDelete
	}
	if !operationType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid operation type %q", operationType))
	}

	record, err := s.repo.FindByBarcodeAndSymbol(ctx, input.Barcode, input.Symbol)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no inventory record for barcode %s at %s", input.Barcode, input.Symbol))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find inventory record")
	}

	now := time.Now().UTC()
	result := &WriteOffResult{Removed: record}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		deleted, err := txRepo.Delete(ctx, record.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete inventory record")
		}
		if deleted == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record already removed")
		}

		entry := &models.HistoryEntry{
			ID:             uuid.New(),
			CollectionName: "Stan",
			Operation:      operationType.HistoryOperation(),
			From:           record.Symbol,
			To:             "-",
			Product:        record.FullName,
			Size:           record.Size,
			Details:        fmt.Sprintf("Odpisano produkt %s (%s) ze stanu %s", record.FullName, record.Barcode, record.Symbol),
			TransactionID:  input.CorrectionTransactionID,
			Timestamp:      now,
		}
		if err := s.histRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history entry")
		}

		if input.CorrectionID == nil {
			return nil
		}

		txCorr := s.corrRepo.WithTx(tx)
		correction, err := txCorr.GetByID(ctx, *input.CorrectionID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "linked correction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load linked correction")
		}
		if !correction.Status.CanTransitionTo(enums.CorrectionStatusResolved) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("correction is %s, only pending corrections resolve on write-off", correction.Status))
		}

		correction.Status = enums.CorrectionStatusResolved
		correction.ResolvedAt = &now
		correction.ResolvedBy = input.ResolvedBy
		if err := txCorr.Update(ctx, correction); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve correction")
		}
		result.CorrectionID = &correction.ID
		return nil
	}); err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithSymbol(ctx, record.Symbol),
			fmt.Sprintf("wrote off %s from %s", record.Barcode, record.Symbol))
	}
	return result, nil
}
