package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
)

// Repository manages persistence for sale documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sale *models.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListUnprocessed(ctx context.Context) ([]models.Sale, error)
	SetProcessed(ctx context.Context, id uuid.UUID, processed bool, at *time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a sales repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListUnprocessed(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	if err := r.db.WithContext(ctx).
		Where("processed = ?", false).
		Order("timestamp ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repository) SetProcessed(ctx context.Context, id uuid.UUID, processed bool, at *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Updates(map[string]any{"processed": processed, "processed_at": at}).Error
}
