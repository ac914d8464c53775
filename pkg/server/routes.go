package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"

	"github.com/gantapp/gant/internal"
	"github.com/gantapp/gant/pkg/models"
	"github.com/gantapp/gant/pkg/server/apihandlers"
	"github.com/gantapp/gant/pkg/tasks"
)

var log = internal.GetLogger()

const ReadHeaderTimeout = 5 * time.Second

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", appState.Config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(httpLogger.Logger("router", log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(SendVersion)
	router.Use(middleware.Heartbeat("/healthz"))
	router.Use(otelchi.Middleware("gant"))

	if len(appState.Config.CORS.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: appState.Config.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID"},
			MaxAge:         300,
		}))
	}

	ingestor := tasks.NewIngestor(appState)

	router.Route("/api/v1", func(r chi.Router) {
		// Publication routes
		r.Get("/publications", apihandlers.GetPublicationListHandler(appState))
		r.Get("/publications/{publicationId}", apihandlers.GetPublicationHandler(appState))

		// Auction routes
		r.Get("/auctions", apihandlers.GetAuctionListHandler(appState))
		r.Route("/auctions/{auctionId}", func(r chi.Router) {
			r.Get("/", apihandlers.GetAuctionHandler(appState))
			r.Get("/objects", apihandlers.GetAuctionObjectsHandler(appState))
		})

		// Cross-auction object search
		r.Get("/objects", apihandlers.GetObjectListHandler(appState))

		// Subscription routes
		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/", apihandlers.GetSubscriptionListHandler(appState))
			r.Get("/prices", apihandlers.GetPricesHandler(appState))
			r.Post("/purchase", apihandlers.PurchaseSubscriptionHandler(appState))
			r.Post("/{subscriptionId}/deactivate", apihandlers.DeactivateSubscriptionHandler(appState))
		})

		// Analytics routes
		r.Route("/analytics", func(r chi.Router) {
			r.Post("/views", apihandlers.RecordViewHandler(appState))
			r.Get("/auctions/{auctionId}/views", apihandlers.GetAuctionViewStatsHandler(appState))
		})

		// Admin routes
		r.Post("/admin/ingest", apihandlers.TriggerIngestHandler(ingestor))
	})

	return router
}
