package corrections

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
)

// Repository manages persistence for correction records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, correction *models.Correction) error
	CreateBatch(ctx context.Context, corrections []*models.Correction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Correction, error)
	List(ctx context.Context) ([]models.Correction, error)
	ListByStatus(ctx context.Context, status enums.CorrectionStatus) ([]models.Correction, error)
	ListBySellingPoint(ctx context.Context, sellingPoint string) ([]models.Correction, error)
	Update(ctx context.Context, correction *models.Correction) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByProductAndTransaction(ctx context.Context, fullName, size, transactionID string) (*models.Correction, error)
	CountByStatus(ctx context.Context) (map[enums.CorrectionStatus]int64, error)
	CountByErrorType(ctx context.Context) (map[enums.CorrectionErrorType]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a corrections repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, correction *models.Correction) error {
	return r.db.WithContext(ctx).Create(correction).Error
}

func (r *repository) CreateBatch(ctx context.Context, corrections []*models.Correction) error {
	if len(corrections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(corrections).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Correction, error) {
	var correction models.Correction
	if err := r.db.WithContext(ctx).First(&correction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &correction, nil
}

func (r *repository) List(ctx context.Context) ([]models.Correction, error) {
	var corrections []models.Correction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&corrections).Error; err != nil {
		return nil, err
	}
	return corrections, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.CorrectionStatus) ([]models.Correction, error) {
	var corrections []models.Correction
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&corrections).Error; err != nil {
		return nil, err
	}
	return corrections, nil
}

func (r *repository) ListBySellingPoint(ctx context.Context, sellingPoint string) ([]models.Correction, error) {
	var corrections []models.Correction
	if err := r.db.WithContext(ctx).
		Where("selling_point = ?", sellingPoint).
		Order("created_at DESC").
		Find(&corrections).Error; err != nil {
		return nil, err
	}
	return corrections, nil
}

func (r *repository) Update(ctx context.Context, correction *models.Correction) error {
	return r.db.WithContext(ctx).Save(correction).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Correction{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// DeleteByProductAndTransaction removes the correction matching the
// product/transaction triple and returns the removed row. Used by the
// undo workflow, which only knows the product and transaction.
func (r *repository) DeleteByProductAndTransaction(ctx context.Context, fullName, size, transactionID string) (*models.Correction, error) {
	var correction models.Correction
	if err := r.db.WithContext(ctx).
		Where("full_name = ? AND size = ? AND transaction_id = ?", fullName, size, transactionID).
		First(&correction).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Correction{}, "id = ?", correction.ID).Error; err != nil {
		return nil, err
	}
	return &correction, nil
}

type statusCount struct {
	Status enums.CorrectionStatus `gorm:"column:status"`
	Count  int64                  `gorm:"column:count"`
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.CorrectionStatus]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Correction{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.CorrectionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

type errorTypeCount struct {
	ErrorType enums.CorrectionErrorType `gorm:"column:error_type"`
	Count     int64                     `gorm:"column:count"`
}

func (r *repository) CountByErrorType(ctx context.Context) (map[enums.CorrectionErrorType]int64, error) {
	var rows []errorTypeCount
	if err := r.db.WithContext(ctx).
		Model(&models.Correction{}).
		Select("error_type, COUNT(*) AS count").
		Group("error_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.CorrectionErrorType]int64, len(rows))
	for _, row := range rows {
		counts[row.ErrorType] = row.Count
	}
	return counts, nil
}
