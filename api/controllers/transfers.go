package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modena-retail/backoffice-backend/api/responses"
	"github.com/modena-retail/backoffice-backend/api/validators"
	"github.com/modena-retail/backoffice-backend/internal/transfers"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

type processTransfersRequest struct {
	TransferIDs   []string `json:"transferIds" validate:"required,min=1,dive,uuid"`
	TransactionID string   `json:"transactionId"`
}

type warehouseItemPayload struct {
	StateID       *string `json:"stateId"`
	TransferID    *string `json:"transferId"`
	FullName      string  `json:"fullName" validate:"required"`
	Size          string  `json:"size"`
	Barcode       string  `json:"barcode"`
	TransferTo    string  `json:"transferTo" validate:"required"`
	Price         *string `json:"price"`
	DiscountPrice *string `json:"discountPrice"`
}

type processWarehouseRequest struct {
	Items              []warehouseItemPayload `json:"items" validate:"required,min=1,dive"`
	TransactionID      string                 `json:"transactionId"`
	IsIncomingTransfer bool                   `json:"isIncomingTransfer"`
}

func ProcessTransfers(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processTransfersRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids := make([]uuid.UUID, 0, len(req.TransferIDs))
		for _, raw := range req.TransferIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transfer id"))
				return
			}
			ids = append(ids, id)
		}

		result, err := svc.ProcessTransfers(r.Context(), transfers.ProcessTransfersInput{
			TransferIDs:   ids,
			TransactionID: req.TransactionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProcessWarehouseItems(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processWarehouseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]transfers.WarehouseItem, 0, len(req.Items))
		for _, payload := range req.Items {
			item, err := payload.toItem()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items = append(items, item)
		}

		result, err := svc.ProcessWarehouseItems(r.Context(), transfers.ProcessWarehouseInput{
			Items:              items,
			TransactionID:      req.TransactionID,
			IsIncomingTransfer: req.IsIncomingTransfer,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func UndoLastTransaction(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.UndoLastTransaction(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ListUnprocessedTransfers(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListUnprocessed(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func (p warehouseItemPayload) toItem() (transfers.WarehouseItem, error) {
	item := transfers.WarehouseItem{
		FullName:   p.FullName,
		Size:       p.Size,
		Barcode:    p.Barcode,
		TransferTo: p.TransferTo,
	}
	if p.StateID != nil {
		stateID, err := uuid.Parse(*p.StateID)
		if err != nil {
			return item, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stateId")
		}
		item.StateID = &stateID
	}
	if p.TransferID != nil {
		transferID, err := uuid.Parse(*p.TransferID)
		if err != nil {
			return item, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transferId")
		}
		item.TransferID = &transferID
	}
	if p.Price != nil {
		price, err := decimal.NewFromString(*p.Price)
		if err != nil {
			return item, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		item.Price = price
	}
	if p.DiscountPrice != nil {
		price, err := decimal.NewFromString(*p.DiscountPrice)
		if err != nil {
			return item, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discountPrice")
		}
		item.DiscountPrice = decimal.NewNullDecimal(price)
	}
	return item, nil
}
