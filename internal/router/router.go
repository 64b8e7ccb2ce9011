package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/vending-backend/internal/handlers"
	"github.com/GregMSThompson/vending-backend/internal/metrics"
	"github.com/GregMSThompson/vending-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	hh := handlers.NewHomeHandlers(deps)
	heh := handlers.NewHealthHandlers(deps)
	ah := handlers.NewAskHandlers(deps)

	r.Get("/", hh.Home)
	r.Mount("/health", heh.HealthRoutes())
	r.Handle("/metrics", metrics.Handler())

	api := ah.AskRoutes()
	// Receipts need both Firestore and Firebase; without them the route is absent.
	if deps.ReceiptSvc != nil && deps.Firebase != nil {
		rh := handlers.NewReceiptHandlers(deps)
		mw := middleware.NewMiddleware(deps.Firebase)
		api.With(mw.FirebaseAuth).Mount("/receipts", rh.ReceiptRoutes())
	}
	r.Mount("/api", api)

	return r
}
