package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/modena-retail/backoffice-backend/api/responses"
	"github.com/modena-retail/backoffice-backend/api/validators"
	"github.com/modena-retail/backoffice-backend/internal/sales"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

type saleItemPayload struct {
	SaleID   *string `json:"saleId"`
	FullName string  `json:"fullName" validate:"required"`
	Size     string  `json:"size"`
	Barcode  string  `json:"barcode" validate:"required"`
	From     string  `json:"from" validate:"required"`
}

type processSalesRequest struct {
	Items         []saleItemPayload `json:"items" validate:"required,min=1,dive"`
	TransactionID string            `json:"transactionId"`
}

func ProcessSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processSalesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]sales.SaleItem, 0, len(req.Items))
		for _, payload := range req.Items {
			item := sales.SaleItem{
				FullName: payload.FullName,
				Size:     payload.Size,
				Barcode:  payload.Barcode,
				From:     payload.From,
			}
			if payload.SaleID != nil {
				saleID, err := uuid.Parse(*payload.SaleID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid saleId"))
					return
				}
				item.SaleID = &saleID
			}
			items = append(items, item)
		}

		result, err := svc.ProcessSales(r.Context(), sales.ProcessSalesInput{
			Items:         items,
			TransactionID: req.TransactionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ListUnprocessedSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListUnprocessed(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
