package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

// Service covers the catalog dictionaries: goods, colors, sizes, bags,
// wallets, localizations and selling points. Business codes are unique;
// duplicates are checked explicitly so the caller gets a typed conflict
// instead of a driver error.
type Service interface {
	CreateGoods(ctx context.Context, input GoodsInput) (*models.Goods, error)
	ListGoods(ctx context.Context) ([]models.Goods, error)
	UpdateGoods(ctx context.Context, id uuid.UUID, input GoodsInput) (*models.Goods, error)
	DeleteGoods(ctx context.Context, id uuid.UUID) error

	CreateColor(ctx context.Context, code, name string) (*models.Color, error)
	ListColors(ctx context.Context) ([]models.Color, error)
	DeleteColor(ctx context.Context, id uuid.UUID) error

	CreateSize(ctx context.Context, code, name string) (*models.Size, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
	DeleteSize(ctx context.Context, id uuid.UUID) error

	CreateBag(ctx context.Context, code, productName string) (*models.Bag, error)
	ListBags(ctx context.Context) ([]models.Bag, error)
	UpdateBag(ctx context.Context, id uuid.UUID, code, productName string) (*models.Bag, error)
	DeleteBag(ctx context.Context, id uuid.UUID) error

	CreateWallet(ctx context.Context, code, productName string) (*models.Wallet, error)
	ListWallets(ctx context.Context) ([]models.Wallet, error)
	UpdateWallet(ctx context.Context, id uuid.UUID, code, productName string) (*models.Wallet, error)
	DeleteWallet(ctx context.Context, id uuid.UUID) error

	CreateLocalization(ctx context.Context, code, description string) (*models.Localization, error)
	ListLocalizations(ctx context.Context) ([]models.Localization, error)
	DeleteLocalization(ctx context.Context, id uuid.UUID) error

	CreateSellingPoint(ctx context.Context, symbol, name, location string) (*models.SellingPoint, error)
	ListSellingPoints(ctx context.Context) ([]models.SellingPoint, error)
	DeleteSellingPoint(ctx context.Context, id uuid.UUID) error
}

// GoodsInput carries a product definition for create or update.
type GoodsInput struct {
	FullName      string
	Code          string
	Category      string
	Subcategory   string
	Color         string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
}

type service struct {
	repo     Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService wires the catalog service.
func NewService(repo Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

func (s *service) CreateGoods(ctx context.Context, input GoodsInput) (*models.Goods, error) {
	if input.FullName == "" || input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fullName and code are required")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}

	existing, err := s.repo.FindGoodsByNameOrCode(ctx, input.FullName, input.Code)
	if err == nil {
		if existing.FullName == input.FullName {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("product %q already exists", input.FullName))
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("product code %q already exists", input.Code))
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check goods duplicate")
	}

	goods := &models.Goods{
		ID:            uuid.New(),
		FullName:      input.FullName,
		Code:          input.Code,
		Category:      input.Category,
		Subcategory:   input.Subcategory,
		Color:         input.Color,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.CreateGoods(ctx, goods); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert goods")
	}
	return goods, nil
}

func (s *service) ListGoods(ctx context.Context) ([]models.Goods, error) {
	goods, err := s.repo.ListGoods(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list goods")
	}
	return goods, nil
}

func (s *service) UpdateGoods(ctx context.Context, id uuid.UUID, input GoodsInput) (*models.Goods, error) {
	goods, err := s.repo.GetGoodsByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load goods")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}

	// duplicate check excludes the row being updated
	if existing, err := s.repo.FindGoodsByNameOrCode(ctx, input.FullName, input.Code); err == nil && existing.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("product %q already exists", input.FullName))
	} else if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check goods duplicate")
	}

	goods.FullName = input.FullName
	goods.Code = input.Code
	goods.Category = input.Category
	goods.Subcategory = input.Subcategory
	goods.Color = input.Color
	goods.Price = input.Price
	goods.DiscountPrice = input.DiscountPrice
	if err := s.repo.UpdateGoods(ctx, goods); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update goods")
	}
	return goods, nil
}

func (s *service) DeleteGoods(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "product", func() (int64, error) { return s.repo.DeleteGoods(ctx, id) })
}

func (s *service) CreateColor(ctx context.Context, code, name string) (*models.Color, error) {
	if err := s.checkCodeFree(ctx, "color", code, func() error {
		_, err := s.repo.FindColorByCode(ctx, code)
		return err
	}); err != nil {
		return nil, err
	}
	color := &models.Color{ID: uuid.New(), Code: code, Name: name, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateColor(ctx, color); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert color")
	}
	return color, nil
}

func (s *service) ListColors(ctx context.Context) ([]models.Color, error) {
	colors, err := s.repo.ListColors(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list colors")
	}
	return colors, nil
}

func (s *service) DeleteColor(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "color", func() (int64, error) { return s.repo.DeleteColor(ctx, id) })
}

func (s *service) CreateSize(ctx context.Context, code, name string) (*models.Size, error) {
	if err := s.checkCodeFree(ctx, "size", code, func() error {
		_, err := s.repo.FindSizeByCode(ctx, code)
		return err
	}); err != nil {
		return nil, err
	}
	size := &models.Size{ID: uuid.New(), Code: code, Name: name, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateSize(ctx, size); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert size")
	}
	return size, nil
}

func (s *service) ListSizes(ctx context.Context) ([]models.Size, error) {
	sizes, err := s.repo.ListSizes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sizes")
	}
	return sizes, nil
}

func (s *service) DeleteSize(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "size", func() (int64, error) { return s.repo.DeleteSize(ctx, id) })
}

func (s *service) CreateBag(ctx context.Context, code, productName string) (*models.Bag, error) {
	if err := s.checkCodeFree(ctx, "bag", code, func() error {
		_, err := s.repo.FindBagByCode(ctx, code)
		return err
	}); err != nil {
		return nil, err
	}
	bag := &models.Bag{ID: uuid.New(), Code: code, ProductName: productName, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateBag(ctx, bag); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bag")
	}
	return bag, nil
}

func (s *service) ListBags(ctx context.Context) ([]models.Bag, error) {
	bags, err := s.repo.ListBags(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bags")
	}
	return bags, nil
}

// UpdateBag renames a bag. Dependent goods derive their full names from
// the bag product name, so a rename cascades into every product carrying
// the old name as prefix.
func (s *service) UpdateBag(ctx context.Context, id uuid.UUID, code, productName string) (*models.Bag, error) {
	bag, err := s.repo.GetBagByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bag not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bag")
	}

	if existing, err := s.repo.FindBagByCode(ctx, code); err == nil && existing.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("bag with code %q already exists", code))
	} else if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check bag duplicate")
	}

	oldName := bag.ProductName
	bag.Code = code
	bag.ProductName = productName

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateBag(ctx, bag); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update bag")
		}
		return s.renameDependentGoods(ctx, txRepo, oldName, productName)
	}); err != nil {
		return nil, err
	}
	return bag, nil
}

func (s *service) DeleteBag(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "bag", func() (int64, error) { return s.repo.DeleteBag(ctx, id) })
}

func (s *service) CreateWallet(ctx context.Context, code, productName string) (*models.Wallet, error) {
	if err := s.checkCodeFree(ctx, "wallet", code, func() error {
		_, err := s.repo.FindWalletByCode(ctx, code)
		return err
	}); err != nil {
		return nil, err
	}
	wallet := &models.Wallet{ID: uuid.New(), Code: code, ProductName: productName, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateWallet(ctx, wallet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert wallet")
	}
	return wallet, nil
}

func (s *service) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	wallets, err := s.repo.ListWallets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list wallets")
	}
	return wallets, nil
}

func (s *service) UpdateWallet(ctx context.Context, id uuid.UUID, code, productName string) (*models.Wallet, error) {
	wallet, err := s.repo.GetWalletByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load wallet")
	}

	if existing, err := s.repo.FindWalletByCode(ctx, code); err == nil && existing.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("wallet with code %q already exists", code))
	} else if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check wallet duplicate")
	}

	oldName := wallet.ProductName
	wallet.Code = code
	wallet.ProductName = productName

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.UpdateWallet(ctx, wallet); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update wallet")
		}
		return s.renameDependentGoods(ctx, txRepo, oldName, productName)
	}); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *service) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "wallet", func() (int64, error) { return s.repo.DeleteWallet(ctx, id) })
}

func (s *service) CreateLocalization(ctx context.Context, code, description string) (*models.Localization, error) {
	if err := s.checkCodeFree(ctx, "localization", code, func() error {
		_, err := s.repo.FindLocalizationByCode(ctx, code)
		return err
	}); err != nil {
		return nil, err
	}
	localization := &models.Localization{ID: uuid.New(), Code: code, Description: description, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateLocalization(ctx, localization); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert localization")
	}
	return localization, nil
}

func (s *service) ListLocalizations(ctx context.Context) ([]models.Localization, error) {
	localizations, err := s.repo.ListLocalizations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list localizations")
	}
	return localizations, nil
}

func (s *service) DeleteLocalization(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "localization", func() (int64, error) { return s.repo.DeleteLocalization(ctx, id) })
}

func (s *service) CreateSellingPoint(ctx context.Context, symbol, name, location string) (*models.SellingPoint, error) {
	if symbol == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "symbol is required")
	}
	if err := s.checkCodeFree(ctx, "selling point", symbol, func() error {
		_, err := s.repo.FindSellingPointBySymbol(ctx, symbol)
		return err
	}); err != nil {
		return nil, err
	}
	point := &models.SellingPoint{ID: uuid.New(), Symbol: symbol, Name: name, Location: location, CreatedAt: time.Now().UTC()}
	if err := s.repo.CreateSellingPoint(ctx, point); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert selling point")
	}
	return point, nil
}

func (s *service) ListSellingPoints(ctx context.Context) ([]models.SellingPoint, error) {
	points, err := s.repo.ListSellingPoints(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list selling points")
	}
	return points, nil
}

func (s *service) DeleteSellingPoint(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "selling point", func() (int64, error) { return s.repo.DeleteSellingPoint(ctx, id) })
}

// renameDependentGoods rewrites the name prefix of every product derived
// from the renamed bag or wallet.
func (s *service) renameDependentGoods(ctx context.Context, repo Repository, oldName, newName string) error {
	if oldName == "" || oldName == newName {
		return nil
	}
	dependents, err := repo.ListGoodsByNamePrefix(ctx, oldName)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list dependent goods")
	}
	for i := range dependents {
		goods := &dependents[i]
		goods.FullName = newName + strings.TrimPrefix(goods.FullName, oldName)
		if err := repo.UpdateGoods(ctx, goods); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rename dependent goods")
		}
	}
	if s.logg != nil && len(dependents) > 0 {
		s.logg.Info(ctx, fmt.Sprintf("renamed %d products after catalog rename %q -> %q", len(dependents), oldName, newName))
	}
	return nil
}

func (s *service) checkCodeFree(ctx context.Context, kind, code string, find func() error) error {
	if code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	err := find()
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s with code %q already exists", kind, code))
	}
	if !db.IsNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check duplicate")
	}
	return nil
}

func (s *service) deleteRow(ctx context.Context, kind string, del func() (int64, error)) error {
	rows, err := del()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete "+kind)
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, kind+" not found")
	}
	return nil
}
