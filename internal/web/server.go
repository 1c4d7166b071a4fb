// Package web exposes the dashboard's read-only JSON API.
package web

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"bpdash/internal/store"
)

// NewRouter builds the API routing table.
func NewRouter(s *store.Store) *mux.Router {
	api := NewAPI(s)

	r := mux.NewRouter()
	r.Use(requestID, logRequest)

	r.HandleFunc("/healthz", api.handleHealth).Methods("GET")
	r.HandleFunc("/api/readings", api.handleReadings).Methods("GET")
	r.HandleFunc("/api/readings/filtered", api.handleFilteredReadings).Methods("GET")
	r.HandleFunc("/api/rolling", api.handleRolling).Methods("GET")
	r.HandleFunc("/api/map", api.handleMAP).Methods("GET")
	r.HandleFunc("/api/summary", api.handleSummary).Methods("GET")
	r.HandleFunc("/api/categories", api.handleCategories).Methods("GET")
	r.HandleFunc("/api/timeline", api.handleTimeline).Methods("GET")
	r.HandleFunc("/api/histogram", api.handleHistogram).Methods("GET")
	r.HandleFunc("/api/trendline", api.handleTrendline).Methods("GET")
	r.HandleFunc("/api/volatility", api.handleVolatility).Methods("GET")
	r.HandleFunc("/api/heatmap", api.handleHeatmap).Methods("GET")
	r.HandleFunc("/api/cadence", api.handleCadence).Methods("GET")
	r.HandleFunc("/api/last", api.handleLast).Methods("GET")
	r.HandleFunc("/api/diagnostics", api.handleDiagnostics).Methods("GET")

	return r
}

// Serve runs the HTTP server until the context is cancelled, then drains it
// with a short grace period.
func Serve(ctx context.Context, addr string, s *store.Store) error {
	router := NewRouter(s)

	handler := handlers.RecoveryHandler()(
		handlers.CORS(handlers.AllowedMethods([]string{"GET"}))(
			handlers.LoggingHandler(os.Stdout, router)))

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Dashboard API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down dashboard API")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
