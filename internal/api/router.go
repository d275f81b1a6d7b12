// Package api wires the HTTP handlers and middleware into a router.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-health/internal/api/handlers"
	"github.com/dvloznov/budget-health/internal/api/middleware"
)

// multipartOverhead is allowed on top of the file limit for form fields
// and part headers.
const multipartOverhead = 1 << 20

// Handlers groups the endpoint handlers served by the router.
type Handlers struct {
	Analysis  *handlers.AnalysisHandler
	Jobs      *handlers.JobsHandler
	Reference *handlers.ReferenceHandler
}

// NewRouter registers every endpoint and the middleware chain. Uploads are
// capped at maxUploadBytes plus multipart overhead.
func NewRouter(h Handlers, maxUploadBytes int64, log zerolog.Logger) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/currencies", h.Reference.ListCurrencies).Methods(http.MethodGet)
	api.HandleFunc("/template", h.Reference.Template).Methods(http.MethodGet)

	limit := middleware.BodyLimit(maxUploadBytes + multipartOverhead)
	api.Handle("/validate", limit(http.HandlerFunc(h.Analysis.Validate))).Methods(http.MethodPost)
	api.Handle("/analyze", limit(http.HandlerFunc(h.Analysis.Analyze))).Methods(http.MethodPost)
	api.Handle("/analyses", limit(http.HandlerFunc(h.Analysis.Enqueue))).Methods(http.MethodPost)

	api.HandleFunc("/jobs", h.Jobs.ListJobs).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", h.Jobs.GetJob).Methods(http.MethodGet)

	// Apply middleware (order matters: outer to inner)
	var handler http.Handler = router
	handler = middleware.Logger(log)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Recovery(log)(handler)

	return handler
}
