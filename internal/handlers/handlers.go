package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"dconn.dev/showcase/internal/config"
	"dconn.dev/showcase/internal/middleware"
	"dconn.dev/showcase/internal/render"
	"dconn.dev/showcase/internal/services"
)

// Deps are the long-lived services the routes share
type Deps struct {
	Config         *config.Config
	Logger         *zap.Logger
	ProjectService *services.ProjectService
	Loader         *services.Loader
	Renderer       *render.Renderer
	Markdown       services.DescriptionRenderer
}

// SetupRoutes configures all routes and returns the router
func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	// Logger wraps Recovery so a recovered panic still gets its request line
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))

	pageHandler := NewPageHandler(d)
	projectHandler := NewProjectHandler(d)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", projectHandler.ListProjects)
		r.Get("/projects/{slug}", projectHandler.GetProject)
		r.Get("/tags", projectHandler.ListTags)
		r.Post("/reload", projectHandler.Reload)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, d.Logger, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	// Local media referenced by records
	if d.Config.Data.MediaDir != "" {
		fileServer := http.FileServer(http.Dir(d.Config.Data.MediaDir))
		r.Handle("/media/*", http.StripPrefix("/media", fileServer))
	}

	r.Get("/grid", pageHandler.Grid)
	r.Get("/", pageHandler.Page)

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding JSON", zap.Error(err))
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}
