package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/modena-retail/backoffice-backend/api/responses"
	"github.com/modena-retail/backoffice-backend/api/validators"
	"github.com/modena-retail/backoffice-backend/internal/catalog"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

type goodsRequest struct {
	FullName      string  `json:"fullName" validate:"required"`
	Code          string  `json:"code" validate:"required"`
	Category      string  `json:"category"`
	Subcategory   string  `json:"subcategory"`
	Color         string  `json:"color"`
	Price         string  `json:"price" validate:"required"`
	DiscountPrice *string `json:"discountPrice"`
}

type dictionaryRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name"`
}

type codedProductRequest struct {
	Code        string `json:"code" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
}

type localizationRequest struct {
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
}

type sellingPointRequest struct {
	Symbol   string `json:"symbol" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

func (g goodsRequest) toInput() (catalog.GoodsInput, error) {
	price, err := decimal.NewFromString(g.Price)
	if err != nil {
		return catalog.GoodsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	input := catalog.GoodsInput{
		FullName:    g.FullName,
		Code:        g.Code,
		Category:    g.Category,
		Subcategory: g.Subcategory,
		Color:       g.Color,
		Price:       price,
	}
	if g.DiscountPrice != nil {
		discount, err := decimal.NewFromString(*g.DiscountPrice)
		if err != nil {
			return catalog.GoodsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discountPrice")
		}
		input.DiscountPrice = decimal.NewNullDecimal(discount)
	}
	return input, nil
}

func CreateGoods(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req goodsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		goods, err := svc.CreateGoods(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, goods)
	}
}

func ListGoods(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		goods, err := svc.ListGoods(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, goods)
	}
}

func UpdateGoods(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req goodsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		goods, err := svc.UpdateGoods(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, goods)
	}
}

func DeleteGoods(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, svc.DeleteGoods)
}

func CreateColor(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dictionaryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		color, err := svc.CreateColor(r.Context(), req.Code, req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, color)
	}
}

func ListColors(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		colors, err := svc.ListColors(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, colors)
	}
}

func DeleteColor(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, svc.DeleteColor)
}

func CreateSize(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dictionaryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := svc.CreateSize(r.Context(), req.Code, req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, size)
	}
}

func ListSizes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sizes, err := svc.ListSizes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sizes)
	}
}

func DeleteSize(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, svc.DeleteSize)
}

func CreateBag(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codedProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bag, err := svc.CreateBag(r.Context(), req.Code, req.ProductName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bag)
	}
}

func ListBags(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bags, err := svc.ListBags(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bags)
	}
}

func UpdateBag(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req codedProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bag, err := svc.UpdateBag(r.Context(), id, req.Code, req.ProductName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bag)
	}
}

func DeleteBag(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, svc.DeleteBag)
}

func CreateWallet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codedProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wallet, err := svc.CreateWallet(r.Context(), req.Code, req.ProductName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, wallet)
	}
}

func ListWallets(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallets, err := svc.ListWallets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wallets)
	}
}

func UpdateWallet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req codedProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		wallet, err := svc.UpdateWallet(r.Context(), id, req.Code, req.ProductName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wallet)
	}
}

func DeleteWallet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, svc.DeleteWallet)
}

func CreateLocalization(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req localizationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		localization, err := svc.CreateLocalization(r.Context(), req.Code, req.Description)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, localization)
	}
}

func ListLocalizations(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		localizations, err := svc.ListLocalizations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, localizations)
	}
}

func DeleteLocalization(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, svc.DeleteLocalization)
}

func CreateSellingPoint(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sellingPointRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		point, err := svc.CreateSellingPoint(r.Context(), req.Symbol, req.Name, req.Location)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, point)
	}
}

func ListSellingPoints(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		points, err := svc.ListSellingPoints(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, points)
	}
}

func DeleteSellingPoint(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return deleteByID(logg, svc.DeleteSellingPoint)
}
