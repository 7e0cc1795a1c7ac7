package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
)

// Repository manages persistence for the catalog dictionaries. They are
// uniform code-keyed tables, so one repository covers all of them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateGoods(ctx context.Context, goods *models.Goods) error
	GetGoodsByID(ctx context.Context, id uuid.UUID) (*models.Goods, error)
	ListGoods(ctx context.Context) ([]models.Goods, error)
	FindGoodsByNameOrCode(ctx context.Context, fullName, code string) (*models.Goods, error)
	ListGoodsByNamePrefix(ctx context.Context, prefix string) ([]models.Goods, error)
	UpdateGoods(ctx context.Context, goods *models.Goods) error
	DeleteGoods(ctx context.Context, id uuid.UUID) (int64, error)

	CreateColor(ctx context.Context, color *models.Color) error
	ListColors(ctx context.Context) ([]models.Color, error)
	FindColorByCode(ctx context.Context, code string) (*models.Color, error)
	DeleteColor(ctx context.Context, id uuid.UUID) (int64, error)

	CreateSize(ctx context.Context, size *models.Size) error
	ListSizes(ctx context.Context) ([]models.Size, error)
	FindSizeByCode(ctx context.Context, code string) (*models.Size, error)
	DeleteSize(ctx context.Context, id uuid.UUID) (int64, error)

	CreateBag(ctx context.Context, bag *models.Bag) error
	GetBagByID(ctx context.Context, id uuid.UUID) (*models.Bag, error)
	ListBags(ctx context.Context) ([]models.Bag, error)
	FindBagByCode(ctx context.Context, code string) (*models.Bag, error)
	UpdateBag(ctx context.Context, bag *models.Bag) error
	DeleteBag(ctx context.Context, id uuid.UUID) (int64, error)

	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	GetWalletByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	FindWalletByCode(ctx context.Context, code string) (*models.Wallet, error)
	UpdateWallet(ctx context.Context, wallet *models.Wallet) error
	DeleteWallet(ctx context.Context, id uuid.UUID) (int64, error)

	CreateLocalization(ctx context.Context, localization *models.Localization) error
	ListLocalizations(ctx context.Context) ([]models.Localization, error)
	FindLocalizationByCode(ctx context.Context, code string) (*models.Localization, error)
	DeleteLocalization(ctx context.Context, id uuid.UUID) (int64, error)

	CreateSellingPoint(ctx context.Context, point *models.SellingPoint) error
	ListSellingPoints(ctx context.Context) ([]models.SellingPoint, error)
	FindSellingPointBySymbol(ctx context.Context, symbol string) (*models.SellingPoint, error)
	DeleteSellingPoint(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateGoods(ctx context.Context, goods *models.Goods) error {
	return r.db.WithContext(ctx).Create(goods).Error
}

func (r *repository) GetGoodsByID(ctx context.Context, id uuid.UUID) (*models.Goods, error) {
	var goods models.Goods
	if err := r.db.WithContext(ctx).First(&goods, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &goods, nil
}

func (r *repository) ListGoods(ctx context.Context) ([]models.Goods, error) {
	var goods []models.Goods
	if err := r.db.WithContext(ctx).Order("full_name ASC").Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

func (r *repository) FindGoodsByNameOrCode(ctx context.Context, fullName, code string) (*models.Goods, error) {
	var goods models.Goods
	if err := r.db.WithContext(ctx).
		Where("full_name = ? OR code = ?", fullName, code).
		First(&goods).Error; err != nil {
		return nil, err
	}
	return &goods, nil
}

func (r *repository) ListGoodsByNamePrefix(ctx context.Context, prefix string) ([]models.Goods, error) {
	var goods []models.Goods
	if err := r.db.WithContext(ctx).
		Where("full_name LIKE ?", prefix+"%").
		Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

func (r *repository) UpdateGoods(ctx context.Context, goods *models.Goods) error {
	return r.db.WithContext(ctx).Save(goods).Error
}

func (r *repository) DeleteGoods(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Goods{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateColor(ctx context.Context, color *models.Color) error {
	return r.db.WithContext(ctx).Create(color).Error
}

func (r *repository) ListColors(ctx context.Context) ([]models.Color, error) {
	var colors []models.Color
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&colors).Error; err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *repository) FindColorByCode(ctx context.Context, code string) (*models.Color, error) {
	var color models.Color
	if err := r.db.WithContext(ctx).First(&color, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *repository) DeleteColor(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Color{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateSize(ctx context.Context, size *models.Size) error {
	return r.db.WithContext(ctx).Create(size).Error
}

func (r *repository) ListSizes(ctx context.Context) ([]models.Size, error) {
	var sizes []models.Size
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&sizes).Error; err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *repository) FindSizeByCode(ctx context.Context, code string) (*models.Size, error) {
	var size models.Size
	if err := r.db.WithContext(ctx).First(&size, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &size, nil
}

func (r *repository) DeleteSize(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Size{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateBag(ctx context.Context, bag *models.Bag) error {
	return r.db.WithContext(ctx).Create(bag).Error
}

func (r *repository) GetBagByID(ctx context.Context, id uuid.UUID) (*models.Bag, error) {
	var bag models.Bag
	if err := r.db.WithContext(ctx).First(&bag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bag, nil
}

func (r *repository) ListBags(ctx context.Context) ([]models.Bag, error) {
	var bags []models.Bag
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&bags).Error; err != nil {
		return nil, err
	}
	return bags, nil
}

func (r *repository) FindBagByCode(ctx context.Context, code string) (*models.Bag, error) {
	var bag models.Bag
	if err := r.db.WithContext(ctx).First(&bag, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &bag, nil
}

func (r *repository) UpdateBag(ctx context.Context, bag *models.Bag) error {
	return r.db.WithContext(ctx).Save(bag).Error
}

func (r *repository) DeleteBag(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Bag{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *repository) GetWalletByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *repository) FindWalletByCode(ctx context.Context, code string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) UpdateWallet(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).Save(wallet).Error
}

func (r *repository) DeleteWallet(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Wallet{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateLocalization(ctx context.Context, localization *models.Localization) error {
	return r.db.WithContext(ctx).Create(localization).Error
}

func (r *repository) ListLocalizations(ctx context.Context) ([]models.Localization, error) {
	var localizations []models.Localization
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&localizations).Error; err != nil {
		return nil, err
	}
	return localizations, nil
}

func (r *repository) FindLocalizationByCode(ctx context.Context, code string) (*models.Localization, error) {
	var localization models.Localization
	if err := r.db.WithContext(ctx).First(&localization, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &localization, nil
}

func (r *repository) DeleteLocalization(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Localization{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repository) CreateSellingPoint(ctx context.Context, point *models.SellingPoint) error {
	return r.db.WithContext(ctx).Create(point).Error
}

func (r *repository) ListSellingPoints(ctx context.Context) ([]models.SellingPoint, error) {
	var points []models.SellingPoint
	if err := r.db.WithContext(ctx).Order("symbol ASC").Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *repository) FindSellingPointBySymbol(ctx context.Context, symbol string) (*models.SellingPoint, error) {
	var point models.SellingPoint
	if err := r.db.WithContext(ctx).First(&point, "symbol = ?", symbol).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *repository) DeleteSellingPoint(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.SellingPoint{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
