package history

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	"github.com/modena-retail/backoffice-backend/pkg/pagination"
)

// Repository manages persistence for the history ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.HistoryEntry) error
	CreateBatch(ctx context.Context, entries []*models.HistoryEntry) error
	List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.HistoryEntry, error)
	ListByTransactionID(ctx context.Context, transactionID string) ([]models.HistoryEntry, error)
	LatestUndoable(ctx context.Context) (*models.HistoryEntry, error)
	DeleteByTransactionID(ctx context.Context, transactionID string) (int64, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// ListFilter narrows history listings.
type ListFilter struct {
	CollectionName string
	TransactionID  string
	Operation      string
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a history repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) CreateBatch(ctx context.Context, entries []*models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.HistoryEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.HistoryEntry{})
	if filter.CollectionName != "" {
		query = query.Where("collection_name = ?", filter.CollectionName)
	}
	if filter.TransactionID != "" {
		query = query.Where("transaction_id = ?", filter.TransactionID)
	}
	if filter.Operation != "" {
		query = query.Where("operation = ?", filter.Operation)
	}
	if cursor != nil {
		query = query.Where(
			"(timestamp < ?) OR (timestamp = ? AND id < ?)",
			cursor.Timestamp, cursor.Timestamp, cursor.ID,
		)
	}

	var entries []models.HistoryEntry
	if err := query.
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListByTransactionID(ctx context.Context, transactionID string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) LatestUndoable(ctx context.Context) (*models.HistoryEntry, error) {
	operations := enums.UndoableHistoryOperations()
	labels := make([]string, len(operations))
	for i, op := range operations {
		labels[i] = string(op)
	}

	var entry models.HistoryEntry
	if err := r.db.WithContext(ctx).
		Where("operation IN ?", labels).
		Where("transaction_id IS NOT NULL AND transaction_id <> ''").
		Order("timestamp DESC, id DESC").
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) DeleteByTransactionID(ctx context.Context, transactionID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Delete(&models.HistoryEntry{})
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.HistoryEntry{}, "id = ?", id).Error
}
