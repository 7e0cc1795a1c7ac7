package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/modena-retail/backoffice-backend/internal/catalog"
	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/internal/sales"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/internal/transfers"
	"github.com/modena-retail/backoffice-backend/pkg/config"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

var routerTestDDL = []string{
	`CREATE TABLE IF NOT EXISTS states (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT,
  barcode TEXT NOT NULL,
  symbol TEXT NOT NULL,
  price NUMERIC,
  discount_price NUMERIC,
  added_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS transfers (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT,
  product_id TEXT NOT NULL,
  barcode TEXT,
  transfer_from TEXT NOT NULL,
  transfer_to TEXT NOT NULL,
  date DATETIME NOT NULL,
  date_string TEXT NOT NULL,
  processed INTEGER NOT NULL DEFAULT 0,
  processed_at DATETIME,
  is_from_sale INTEGER NOT NULL DEFAULT 0,
  reason TEXT,
  advance_payment NUMERIC,
  advance_payment_currency TEXT DEFAULT 'PLN',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_transfers_product_day UNIQUE (product_id, date_string)
);`,
	`CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT,
  barcode TEXT NOT NULL,
  selling_point TEXT NOT NULL,
  symbol TEXT NOT NULL,
  cash TEXT,
  card TEXT,
  processed INTEGER NOT NULL DEFAULT 0,
  processed_at DATETIME,
  timestamp DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS corrections (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  size TEXT NOT NULL,
  barcode TEXT NOT NULL,
  selling_point TEXT NOT NULL,
  symbol TEXT NOT NULL,
  error_type TEXT NOT NULL,
  description TEXT,
  attempted_operation TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  original_price NUMERIC,
  discount_price NUMERIC,
  transaction_id TEXT,
  original_data TEXT,
  created_at DATETIME,
  resolved_at DATETIME,
  resolved_by TEXT
);`,
	`CREATE TABLE IF NOT EXISTS history (
  id TEXT PRIMARY KEY,
  collection_name TEXT NOT NULL,
  operation TEXT NOT NULL,
  from_symbol TEXT NOT NULL DEFAULT '-',
  to_symbol TEXT NOT NULL DEFAULT '-',
  product TEXT,
  size TEXT,
  details TEXT,
  transfer_from TEXT,
  transfer_to TEXT,
  transaction_id TEXT,
  original_data TEXT,
  timestamp DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS goods (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL UNIQUE,
  code TEXT NOT NULL UNIQUE,
  category TEXT,
  subcategory TEXT,
  color TEXT,
  price NUMERIC,
  discount_price NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS colors (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS sizes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS bags (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  product_name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS wallets (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  product_name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS localizations (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS selling_points (
  id TEXT PRIMARY KEY,
  symbol TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  location TEXT,
  created_at DATETIME
);`,
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	for _, ddl := range routerTestDDL {
		require.NoError(t, conn.Exec(ddl).Error)
	}

	dbClient := db.NewWithConn(conn)

	corrRepo := corrections.NewRepository(conn)
	histRepo := history.NewRepository(conn)
	stateRepo := state.NewRepository(conn)
	salesRepo := sales.NewRepository(conn)
	transferRepo := transfers.NewRepository(conn)

	corrSvc, err := corrections.NewService(corrRepo, histRepo, dbClient, nil, nil, 0)
	require.NoError(t, err)
	stateSvc, err := state.NewService(stateRepo, corrRepo, histRepo, dbClient, nil)
	require.NoError(t, err)
	histSvc, err := history.NewService(histRepo)
	require.NoError(t, err)
	salesSvc, err := sales.NewService(salesRepo, stateRepo, histRepo, corrSvc, dbClient, nil, nil)
	require.NoError(t, err)
	transferSvc, err := transfers.NewService(transferRepo, stateRepo, histRepo, corrRepo, corrSvc, salesRepo, dbClient, nil, nil)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), dbClient, nil)
	require.NoError(t, err)

	return NewRouter(Deps{
		Config:      &config.Config{App: config.AppConfig{Env: "test"}},
		DBPinger:    stubPinger{},
		Corrections: corrSvc,
		State:       stateSvc,
		Transfers:   transferSvc,
		Sales:       salesSvc,
		History:     histSvc,
		Catalog:     catalogSvc,
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "test", resp.Header().Get("X-Backoffice-Env"))
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))
}

func TestRouterHealthReady(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, resp.Code)

	var body types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	payload := body.Data.(map[string]any)
	assert.Equal(t, "ready", payload["status"])
}

func TestRouterGoodsRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	create := httptest.NewRecorder()
	router.ServeHTTP(create, httptest.NewRequest(http.MethodPost, "/api/goods",
		strings.NewReader(`{"fullName":"TOREBKA MILANO CZARNA","code":"TM-001","category":"TOREBKA","price":"199.99"}`)))
	require.Equal(t, http.StatusCreated, create.Code, create.Body.String())

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/goods", nil))
	require.Equal(t, http.StatusOK, list.Code)

	var body types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(list.Body).Decode(&body))
	items := body.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "TOREBKA MILANO CZARNA", items[0].(map[string]any)["fullName"])
}

func TestRouterGoodsValidationFailure(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/goods",
		strings.NewReader(`{"fullName":"TOREBKA MILANO CZARNA"}`)))

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeValidation), body.Error.Code)
}

func TestRouterListStateEmpty(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	require.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterUndoWithoutHistoryReturnsNotFound(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/transfer/undo-last", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusNotFound, resp.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeNotFound), body.Error.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	require.Equal(t, http.StatusNotFound, resp.Code)
}
