package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/modena-retail/backoffice-backend/api/responses"
	"github.com/modena-retail/backoffice-backend/api/validators"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

type writeOffRequest struct {
	OperationType           string  `json:"operationType"`
	CorrectionID            *string `json:"correctionId"`
	CorrectionTransactionID *string `json:"correctionTransactionId"`
	ResolvedBy              *string `json:"resolvedBy"`
}

func ListState(svc state.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

func ListStateBySymbol(svc state.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListBySymbol(r.Context(), chi.URLParam(r, "symbol"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// LocateCorrectionMatches searches every selling point for physical
// copies of a PENDING correction's product.
func LocateCorrectionMatches(svc state.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.LocateMatches(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WriteOffState removes one record from a selling point and, when linked,
// resolves the driving correction in the same transaction.
func WriteOffState(svc state.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barcode := chi.URLParam(r, "barcode")
		symbol := chi.URLParam(r, "symbol")
		if barcode == "" || symbol == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "barcode and symbol are required"))
			return
		}

		var req writeOffRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := state.WriteOffInput{
			Barcode:                 barcode,
			Symbol:                  symbol,
			CorrectionTransactionID: req.CorrectionTransactionID,
			ResolvedBy:              req.ResolvedBy,
		}
		if req.OperationType != "" {
			operationType, err := enums.ParseWriteOffType(req.OperationType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid operationType"))
				return
			}
			input.OperationType = operationType
		}
		if req.CorrectionID != nil {
			correctionID, err := uuid.Parse(*req.CorrectionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid correctionId"))
				return
			}
			input.CorrectionID = &correctionID
		}

		result, err := svc.WriteOff(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
