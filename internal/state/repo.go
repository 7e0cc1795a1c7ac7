package state

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
)

// Repository manages persistence for per-point inventory records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.InventoryRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error)
	List(ctx context.Context) ([]models.InventoryRecord, error)
	ListBySymbol(ctx context.Context, symbol string) ([]models.InventoryRecord, error)
	FindByBarcodeAndSymbol(ctx context.Context, barcode, symbol string) (*models.InventoryRecord, error)
	FindByNameSizeAndSymbol(ctx context.Context, fullName, size, symbol string) (*models.InventoryRecord, error)
	FindMatches(ctx context.Context, barcode, fullName, size string) ([]models.InventoryRecord, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Order("added_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListBySymbol(ctx context.Context, symbol string) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("added_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) FindByBarcodeAndSymbol(ctx context.Context, barcode, symbol string) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("barcode = ? AND symbol = ?", barcode, symbol).
		Order("added_at ASC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByNameSizeAndSymbol(ctx context.Context, fullName, size, symbol string) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("full_name = ? AND size = ? AND symbol = ?", fullName, size, symbol).
		Order("added_at ASC").
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindMatches searches every selling point for records matching the exact
// barcode or the (fullName, size) pair. Transfer-sourced units can carry
// synthetic barcodes, which is why the name/size path exists.
func (r *repository) FindMatches(ctx context.Context, barcode, fullName, size string) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("barcode = ? OR (full_name = ? AND size = ?)", barcode, fullName, size).
		Order("symbol ASC, added_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.InventoryRecord{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
