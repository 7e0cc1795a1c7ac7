package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modena-retail/backoffice-backend/api/controllers"
	"github.com/modena-retail/backoffice-backend/api/middleware"
	"github.com/modena-retail/backoffice-backend/internal/catalog"
	"github.com/modena-retail/backoffice-backend/internal/corrections"
	"github.com/modena-retail/backoffice-backend/internal/history"
	"github.com/modena-retail/backoffice-backend/internal/sales"
	"github.com/modena-retail/backoffice-backend/internal/state"
	"github.com/modena-retail/backoffice-backend/internal/transfers"
	"github.com/modena-retail/backoffice-backend/pkg/config"
	"github.com/modena-retail/backoffice-backend/pkg/db"
	"github.com/modena-retail/backoffice-backend/pkg/logger"
	"github.com/modena-retail/backoffice-backend/pkg/metrics"
	pkgredis "github.com/modena-retail/backoffice-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    db.Pinger
	Redis       *pkgredis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Corrections corrections.Service
	State       state.Service
	Transfers   transfers.Service
	Sales       sales.Service
	History     history.Service
	Catalog     catalog.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	logg := deps.Logger

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	var idemStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		idemStore = deps.Redis
	}
	r.Use(middleware.Idempotency(idemStore, logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		var redisPinger pkgredis.Pinger
		if deps.Redis != nil {
			redisPinger = deps.Redis
		}
		r.Get("/ready", controllers.HealthReady(deps.Config, logg, deps.DBPinger, redisPinger))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/corrections", func(r chi.Router) {
			r.Post("/", controllers.CreateCorrection(deps.Corrections, logg))
			r.Post("/multiple", controllers.CreateCorrections(deps.Corrections, logg))
			r.Get("/", controllers.ListCorrections(deps.Corrections, logg))
			r.Get("/stats", controllers.CorrectionStats(deps.Corrections, logg))
			r.Get("/status/{status}", controllers.ListCorrectionsByStatus(deps.Corrections, logg))
			r.Get("/selling-point/{sellingPoint}", controllers.ListCorrectionsBySellingPoint(deps.Corrections, logg))
			r.Get("/{id}/locations", controllers.LocateCorrectionMatches(deps.State, logg))
			r.Put("/{id}", controllers.UpdateCorrection(deps.Corrections, logg))
			r.Delete("/{id}", controllers.DeleteCorrection(deps.Corrections, logg))
		})

		r.Route("/state", func(r chi.Router) {
			r.Get("/", controllers.ListState(deps.State, logg))
			r.Get("/symbol/{symbol}", controllers.ListStateBySymbol(deps.State, logg))
			r.Delete("/barcode/{barcode}/symbol/{symbol}", controllers.WriteOffState(deps.State, logg))
		})

		r.Route("/transfer", func(r chi.Router) {
			r.Post("/process", controllers.ProcessTransfers(deps.Transfers, logg))
			r.Post("/warehouse", controllers.ProcessWarehouseItems(deps.Transfers, logg))
			r.Post("/undo-last", controllers.UndoLastTransaction(deps.Transfers, logg))
			r.Get("/unprocessed", controllers.ListUnprocessedTransfers(deps.Transfers, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/process", controllers.ProcessSales(deps.Sales, logg))
			r.Get("/unprocessed", controllers.ListUnprocessedSales(deps.Sales, logg))
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", controllers.ListHistory(deps.History, logg))
			r.Get("/transaction/{transactionId}", controllers.ListHistoryByTransaction(deps.History, logg))
		})

		r.Route("/goods", func(r chi.Router) {
			r.Post("/", controllers.CreateGoods(deps.Catalog, logg))
			r.Get("/", controllers.ListGoods(deps.Catalog, logg))
			r.Put("/{id}", controllers.UpdateGoods(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteGoods(deps.Catalog, logg))
		})
		r.Route("/colors", func(r chi.Router) {
			r.Post("/", controllers.CreateColor(deps.Catalog, logg))
			r.Get("/", controllers.ListColors(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteColor(deps.Catalog, logg))
		})
		r.Route("/sizes", func(r chi.Router) {
			r.Post("/", controllers.CreateSize(deps.Catalog, logg))
			r.Get("/", controllers.ListSizes(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteSize(deps.Catalog, logg))
		})
		r.Route("/bags", func(r chi.Router) {
			r.Post("/", controllers.CreateBag(deps.Catalog, logg))
			r.Get("/", controllers.ListBags(deps.Catalog, logg))
			r.Put("/{id}", controllers.UpdateBag(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteBag(deps.Catalog, logg))
		})
		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", controllers.CreateWallet(deps.Catalog, logg))
			r.Get("/", controllers.ListWallets(deps.Catalog, logg))
			r.Put("/{id}", controllers.UpdateWallet(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteWallet(deps.Catalog, logg))
		})
		r.Route("/localizations", func(r chi.Router) {
			r.Post("/", controllers.CreateLocalization(deps.Catalog, logg))
			r.Get("/", controllers.ListLocalizations(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteLocalization(deps.Catalog, logg))
		})
		r.Route("/selling-points", func(r chi.Router) {
			r.Post("/", controllers.CreateSellingPoint(deps.Catalog, logg))
			r.Get("/", controllers.ListSellingPoints(deps.Catalog, logg))
			r.Delete("/{id}", controllers.DeleteSellingPoint(deps.Catalog, logg))
		})
	})

	return r
}
