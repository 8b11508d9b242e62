package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"jamesfarrell.me/ad-skipper/internal/api/handlers"
	"jamesfarrell.me/ad-skipper/internal/api/middleware"
	"jamesfarrell.me/ad-skipper/internal/logger"
)

type Options struct {
	AllowedOrigins []string
	// ServiceAPIKey enables X-API-Key checks on protected routes when set.
	ServiceAPIKey string
}

func NewRouter(locator handlers.Locator, log *logger.Logger, opts Options) http.Handler {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	// Protected routes
	protected := r.PathPrefix("").Subrouter()
	if opts.ServiceAPIKey != "" {
		protected.Use(middleware.Auth(opts.ServiceAPIKey))
	}

	videoHandler := handlers.NewVideoHandler(locator, log)
	protected.HandleFunc("/process_video/", videoHandler.ProcessVideo).Methods(http.MethodPost)
	protected.HandleFunc("/process_video", videoHandler.ProcessVideo).Methods(http.MethodPost)

	// Logging wraps the whole chain so unmatched routes and preflights are tagged too.
	return middleware.Logging(log)(middleware.CORS(opts.AllowedOrigins)(r))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
