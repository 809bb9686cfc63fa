package httpapi

import (
	"net/http"

	"github.com/Hrishith30/marketplace/internal/adapter/httpapi/middleware"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/Hrishith30/marketplace/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface: the listing and message routes plus a
// liveness probe.
func NewRouter(listings *ListingHandler, messages *MessageHandler, m *metrics.Manager, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RequestMetrics(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Get("/", listings.HandleBrowseListings)
			r.Post("/", listings.HandleCreateListing)
			r.Post("/photos", listings.HandleUploadPhotos)
			r.Post("/with-photos", listings.HandleCreateListingWithPhotos)
			r.Get("/{id}", listings.HandleGetListing)
		})
		r.Route("/messages", func(r chi.Router) {
			r.Get("/", messages.HandleListMessages)
			r.Post("/", messages.HandleSendMessage)
		})
	})

	return r
}
