package rest

import (
	"context"
	"net/http"

	core_port "listing-query-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	listingsHandler *ListingsHandler,
	catalogHandler *CatalogHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// read side
		r.Get("/listings", listingsHandler.FindListings)
		r.Get("/listings/cards", listingsHandler.FindListingCards)
		r.Get("/listings/search", listingsHandler.SearchListings)
		r.Get("/listings/suggest", listingsHandler.SuggestListings)
		r.Get("/listings/featured", listingsHandler.GetFeatured)
		r.Get("/listings/{listingID}", listingsHandler.GetListing)
		r.Get("/listings/{listingID}/similar", listingsHandler.SimilarListings)
		r.Post("/listings/{listingID}/views", listingsHandler.IncrementViews)

		// write side, used by feeders and moderation
		r.Post("/listings", catalogHandler.SaveListing)
		r.Post("/listings/remove", catalogHandler.RemoveListings)
		r.Put("/listings/{listingID}/featured", catalogHandler.SetFeatured)
		r.Put("/listings/{listingID}/disabled", catalogHandler.SetDisabled)
		r.Put("/listings/{listingID}/coordinates", catalogHandler.UpdateCoordinates)

		// feed reconciliation state
		r.Get("/feed/missing-coordinates", catalogHandler.GetMissingCoordinates)
		r.Get("/feed/{source}/external-ids", catalogHandler.GetExternalIDs)
		r.Get("/feed/{source}/latest-update", catalogHandler.GetLatestUpdate)
		r.Post("/feed/{source}/remove", catalogHandler.RemoveByExternalIDs)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
