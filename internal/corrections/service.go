package corrections

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
	redispkg "github.com/modena-retail/backoffice-backend/pkg/redis"
)

// Service exposes correction lifecycle management.
type Service interface {
	RecordCorrection(ctx context.Context, input RecordCorrectionInput) (*models.Correction, error)
	RecordCorrections(ctx context.Context, inputs []RecordCorrectionInput) ([]models.Correction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*models.Correction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Correction, error)
	List(ctx context.Context) ([]models.Correction, error)
	ListByStatus(ctx context.Context, status enums.CorrectionStatus) ([]models.Correction, error)
	ListBySellingPoint(ctx context.Context, sellingPoint string) ([]models.Correction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
}

// RecordCorrectionInput is one detected mismatch to be parked as a correction.
type RecordCorrectionInput struct {
	FullName           string
	Size               string
	Barcode            string
	SellingPoint       string
	Symbol             string
	ErrorType          enums.CorrectionErrorType
	Description        string
	AttemptedOperation enums.AttemptedOperation
	OriginalPrice      decimal.NullDecimal
	DiscountPrice      decimal.NullDecimal
	TransactionID      *string
	OriginalData       json.RawMessage
}

// UpdateStatusInput carries a status transition request.
type UpdateStatusInput struct {
	Status      enums.CorrectionStatus
	ResolvedBy  *string
	Description *string
}

// Stats groups correction counts by status and error type.
type Stats struct {
	StatusStats    map[enums.CorrectionStatus]int64    `json:"statusStats"`
	ErrorTypeStats map[enums.CorrectionErrorType]int64 `json:"errorTypeStats"`
}

type service struct {
	repo     Repository
	histRepo history.Repository
	dbClient *db.Client
	cache    redispkg.StatsCache
	logg     *logger.Logger
	cacheTTL time.Duration
}

// NewService wires a corrections service. The cache is optional; when nil
// stats are always computed from the database.
func NewService(repo Repository, histRepo history.Repository, dbClient *db.Client, cache redispkg.StatsCache, logg *logger.Logger, cacheTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("corrections repository required")
	}
	if histRepo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		histRepo: histRepo,
		dbClient: dbClient,
		cache:    cache,
		logg:     logg,
		cacheTTL: cacheTTL,
	}, nil
}

// originSnapshot is the subset of the original document snapshot the
// destination rule reads.
type originSnapshot struct {
	IsFromSale   bool   `json:"isFromSale"`
	TransferTo   string `json:"transfer_to"`
	TransferFrom string `json:"transfer_from"`
}

// destinationFor resolves where the blocked stock was headed. Sales beat
// transfers; transfers beat the corrections bucket.
func destinationFor(original json.RawMessage) (string, originSnapshot) {
	var snapshot originSnapshot
	if len(original) == 0 {
		return enums.DestinationCorrections, snapshot
	}
	if err := json.Unmarshal(original, &snapshot); err != nil {
		return enums.DestinationCorrections, originSnapshot{}
	}
	if snapshot.IsFromSale {
		return enums.DestinationSold, snapshot
	}
	if snapshot.TransferTo != "" {
		return snapshot.TransferTo, snapshot
	}
	return enums.DestinationCorrections, snapshot
}

func (s *service) buildCorrection(input RecordCorrectionInput, now time.Time) (*models.Correction, error) {
	if input.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fullName is required")
	}
	if input.Symbol == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "symbol is required")
	}

	errorType := input.ErrorType
	if errorType == "" {
		errorType = enums.CorrectionErrorMissingInState
	}
	if !errorType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid error type %q", errorType))
	}

	operation := input.AttemptedOperation
	if operation == "" {
		operation = enums.AttemptedOperationWriteOff
	}
	if !operation.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid attempted operation %q", operation))
	}

	return &models.Correction{
		ID:                 uuid.New(),
		FullName:           input.FullName,
		Size:               input.Size,
		Barcode:            input.Barcode,
		SellingPoint:       input.SellingPoint,
		Symbol:             input.Symbol,
		ErrorType:          errorType,
		Description:        input.Description,
		AttemptedOperation: operation,
		Status:             enums.CorrectionStatusPending,
		OriginalPrice:      input.OriginalPrice,
		DiscountPrice:      input.DiscountPrice,
		TransactionID:      input.TransactionID,
		OriginalData:       input.OriginalData,
		CreatedAt:          now,
	}, nil
}

func (s *service) RecordCorrection(ctx context.Context, input RecordCorrectionInput) (*models.Correction, error) {
	correction, err := s.buildCorrection(input, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, correction); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert correction")
	}
	s.invalidateStats(ctx)
	return correction, nil
}

// RecordCorrections inserts the batch and, when the batch carries a
// transaction id, writes exactly one history entry per correction. There
// is deliberately no deduplication: every physical unit keeps its own
// audit row even when two items are otherwise identical.
func (s *service) RecordCorrections(ctx context.Context, inputs []RecordCorrectionInput) ([]models.Correction, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one correction is required")
	}

	now := time.Now().UTC()
	rows := make([]*models.Correction, 0, len(inputs))
	for _, input := range inputs {
		correction, err := s.buildCorrection(input, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, correction)
	}

	var transactionID string
	if inputs[0].TransactionID != nil {
		transactionID = *inputs[0].TransactionID
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateBatch(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert corrections")
		}

		if transactionID == "" {
			return nil
		}

		entries := make([]*models.HistoryEntry, 0, len(rows))
		for i, correction := range rows {
			destination, snapshot := destinationFor(inputs[i].OriginalData)

			entry := &models.HistoryEntry{
				ID:             uuid.New(),
				CollectionName: "Korekty",
				Operation:      enums.HistoryOperationMovedToCorrects,
				From:           correction.Symbol,
				To:             destination,
				Product:        correction.FullName,
				Size:           correction.Size,
				Details:        fmt.Sprintf("Brak pokrycia w stanie - %s", correction.Description),
				TransactionID:  &transactionID,
				OriginalData:   inputs[i].OriginalData,
				Timestamp:      now,
			}
			if snapshot.TransferFrom != "" {
				entry.TransferFrom = &snapshot.TransferFrom
			}
			if snapshot.TransferTo != "" {
				entry.TransferTo = &snapshot.TransferTo
			}
			entries = append(entries, entry)
		}

		if err := s.histRepo.WithTx(tx).CreateBatch(ctx, entries); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert history entries")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if s.logg != nil && transactionID != "" {
		s.logg.Info(s.logg.WithTransactionID(ctx, transactionID),
			fmt.Sprintf("recorded %d corrections with history entries", len(rows)))
	}
	s.invalidateStats(ctx)

	out := make([]models.Correction, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input UpdateStatusInput) (*models.Correction, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", input.Status))
	}

	correction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "correction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load correction")
	}

	if !correction.Status.CanTransitionTo(input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition correction from %s to %s", correction.Status, input.Status))
	}

	correction.Status = input.Status
	if input.Description != nil {
		correction.Description = *input.Description
	}

	switch input.Status {
	case enums.CorrectionStatusResolved:
		now := time.Now().UTC()
		correction.ResolvedAt = &now
		correction.ResolvedBy = input.ResolvedBy
	case enums.CorrectionStatusPending:
		// returning to the queue clears the resolution trail
		correction.ResolvedAt = nil
		correction.ResolvedBy = nil
	case enums.CorrectionStatusIgnored:
		correction.ResolvedBy = input.ResolvedBy
	}

	if err := s.repo.Update(ctx, correction); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update correction")
	}
	s.invalidateStats(ctx)
	return correction, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Correction, error) {
	correction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "correction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load correction")
	}
	return correction, nil
}

func (s *service) List(ctx context.Context) ([]models.Correction, error) {
	corrections, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list corrections")
	}
	return corrections, nil
}

func (s *service) ListByStatus(ctx context.Context, status enums.CorrectionStatus) ([]models.Correction, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}
	corrections, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list corrections by status")
	}
	return corrections, nil
}

func (s *service) ListBySellingPoint(ctx context.Context, sellingPoint string) ([]models.Correction, error) {
	if sellingPoint == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling point is required")
	}
	corrections, err := s.repo.ListBySellingPoint(ctx, sellingPoint)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list corrections by selling point")
	}
	return corrections, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete correction")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "correction not found")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.statsCacheKey())
		if err == nil {
			var stats Stats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if !redispkg.IsNil(err) && s.logg != nil {
			s.logg.Warn(ctx, "stats cache read failed")
		}
	}

	statusStats, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count corrections by status")
	}
	errorTypeStats, err := s.repo.CountByErrorType(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count corrections by error type")
	}

	stats := &Stats{StatusStats: statusStats, ErrorTypeStats: errorTypeStats}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, s.statsCacheKey(), string(payload), s.cacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "stats cache write failed")
			}
		}
	}
	return stats, nil
}

func (s *service) statsCacheKey() string {
	return s.cache.CacheKey("corrections", "stats")
}

func (s *service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.statsCacheKey()); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "stats cache invalidation failed")
	}
}
