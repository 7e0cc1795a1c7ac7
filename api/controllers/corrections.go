package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/modena-retail/backoffice-backend/api/responses"
	"github.com/modena-retail/backoffice-backend/api/validators"
	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/pkg/enums"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

type correctionPayload struct {
	FullName           string          `json:"fullName" validate:"required"`
	Size               string          `json:"size"`
	Barcode            string          `json:"barcode"`
	SellingPoint       string          `json:"sellingPoint"`
	Symbol             string          `json:"symbol" validate:"required"`
	ErrorType          string          `json:"errorType"`
	Description        string          `json:"description"`
	AttemptedOperation string          `json:"attemptedOperation"`
	OriginalPrice      *string         `json:"originalPrice"`
	DiscountPrice      *string         `json:"discountPrice"`
	OriginalData       json.RawMessage `json:"originalData"`
}

type recordCorrectionRequest struct {
	correctionPayload
	TransactionID *string `json:"transactionId"`
}

type recordCorrectionsRequest struct {
	TransactionID string              `json:"transactionId"`
	Corrections   []correctionPayload `json:"corrections" validate:"required,min=1,dive"`
}

type updateCorrectionRequest struct {
	Status      string  `json:"status" validate:"required,oneof=PENDING RESOLVED IGNORED"`
	ResolvedBy  *string `json:"resolvedBy"`
	Description *string `json:"description"`
}

func (p correctionPayload) toInput(transactionID *string) (corrections.RecordCorrectionInput, error) {
	input := corrections.RecordCorrectionInput{
		FullName:      p.FullName,
		Size:          p.Size,
		Barcode:       p.Barcode,
		SellingPoint:  p.SellingPoint,
		Symbol:        p.Symbol,
		Description:   p.Description,
		TransactionID: transactionID,
		OriginalData:  p.OriginalData,
	}
	if p.ErrorType != "" {
		errorType, err := enums.ParseCorrectionErrorType(p.ErrorType)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid errorType")
		}
		input.ErrorType = errorType
	}
	if p.AttemptedOperation != "" {
		input.AttemptedOperation = enums.AttemptedOperation(p.AttemptedOperation)
	}
	if p.OriginalPrice != nil {
		price, err := decimal.NewFromString(*p.OriginalPrice)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid originalPrice")
		}
		input.OriginalPrice = decimal.NewNullDecimal(price)
	}
	if p.DiscountPrice != nil {
		price, err := decimal.NewFromString(*p.DiscountPrice)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discountPrice")
		}
		input.DiscountPrice = decimal.NewNullDecimal(price)
	}
	return input, nil
}

func CreateCorrection(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordCorrectionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := req.toInput(req.TransactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		correction, err := svc.RecordCorrection(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, correction)
	}
}

func CreateCorrections(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordCorrectionsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var transactionID *string
		if req.TransactionID != "" {
			transactionID = &req.TransactionID
		}

		inputs := make([]corrections.RecordCorrectionInput, 0, len(req.Corrections))
		for _, payload := range req.Corrections {
			input, err := payload.toInput(transactionID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			inputs = append(inputs, input)
		}

		created, err := svc.RecordCorrections(r.Context(), inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func UpdateCorrection(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateCorrectionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCorrectionStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		correction, err := svc.UpdateStatus(r.Context(), id, corrections.UpdateStatusInput{
			Status:      status,
			ResolvedBy:  req.ResolvedBy,
			Description: req.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, correction)
	}
}

func DeleteCorrection(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ListCorrections(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ListCorrectionsByStatus(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := enums.ParseCorrectionStatus(chi.URLParam(r, "status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		list, err := svc.ListByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ListCorrectionsBySellingPoint(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellingPoint := chi.URLParam(r, "sellingPoint")
		if sellingPoint == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sellingPoint is required"))
			return
		}
		list, err := svc.ListBySellingPoint(r.Context(), sellingPoint)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CorrectionStats(svc corrections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
