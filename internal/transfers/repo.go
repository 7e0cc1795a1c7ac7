package transfers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
)

// Repository manages persistence for transfer documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, transfer *models.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	ListUnprocessed(ctx context.Context) ([]models.Transfer, error)
	SetProcessed(ctx context.Context, id uuid.UUID, processed bool, at *time.Time) error
	FindByProductAndDay(ctx context.Context, productID, dateString string) (*models.Transfer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a transfers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *repository) ListUnprocessed(ctx context.Context) ([]models.Transfer, error) {
	var transfers []models.Transfer
	if err := r.db.WithContext(ctx).
		Where("processed = ?", false).
		Order("date ASC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

func (r *repository) SetProcessed(ctx context.Context, id uuid.UUID, processed bool, at *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Transfer{}).
		Where("id = ?", id).
		Updates(map[string]any{"processed": processed, "processed_at": at}).Error
}

func (r *repository) FindByProductAndDay(ctx context.Context, productID, dateString string) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND date_string = ?", productID, dateString).
		First(&transfer).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Transfer{}, "id = ?", id).Error
}
