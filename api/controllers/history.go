package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/modena-retail/backoffice-backend/api/responses"
	"github.com/modena-retail/backoffice-backend/internal/history"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
)

func ListHistory(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		input := history.ListInput{
			CollectionName: query.Get("collectionName"),
			TransactionID:  query.Get("transactionId"),
			Operation:      query.Get("operation"),
			Cursor:         query.Get("cursor"),
		}
		if raw := query.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit"))
				return
			}
			input.Limit = limit
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ListHistoryByTransaction(svc history.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID := chi.URLParam(r, "transactionId")
		if transactionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "transactionId is required"))
			return
		}
		entries, err := svc.ListByTransactionID(r.Context(), transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
