package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dconn.dev/showcase/internal/models"
	"dconn.dev/showcase/internal/services"
)

// ProjectHandler handles project-related endpoints
type ProjectHandler struct {
	deps Deps
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(d Deps) *ProjectHandler {
	return &ProjectHandler{deps: d}
}

// ListProjects handles GET /api/projects?tag=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	vm := newViewModel(h.deps, h.deps.ProjectService.Snapshot())
	vm.SelectTag(r.URL.Query().Get("tag"))

	respondJSON(w, h.deps.Logger, http.StatusOK, vm.Render())
}

// GetProject handles GET /api/projects/{slug}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, err := h.deps.ProjectService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			respondError(w, h.deps.Logger, http.StatusNotFound, "Project not found")
			return
		}
		respondError(w, h.deps.Logger, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, h.deps.Logger, http.StatusOK, services.BuildCard(*project, slug, h.deps.Markdown))
}

// ListTags handles GET /api/tags
func (h *ProjectHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	valid := h.deps.ProjectService.GetAll()
	opts := services.BuildTagOptions(valid, r.URL.Query().Get("tag"),
		h.deps.Config.Tags.ShowAllLabel, h.deps.Config.Tags.PreferredOrder)

	respondJSON(w, h.deps.Logger, http.StatusOK, opts)
}

type reloadResponse struct {
	State   services.LoadState `json:"state"`
	Records int                `json:"records"`
	Applied bool               `json:"applied"`
	Error   string             `json:"error,omitempty"`
}

// Reload handles POST /api/reload - one load attempt; a failure keeps the last good records
func (h *ProjectHandler) Reload(w http.ResponseWriter, r *http.Request) {
	result := h.deps.Loader.Load(r.Context())
	applied := h.deps.ProjectService.Apply(result)

	resp := reloadResponse{State: result.State, Records: len(result.Records), Applied: applied}
	status := http.StatusOK
	if result.Err != nil {
		resp.Error = models.MessageError
		status = http.StatusBadGateway
	}
	respondJSON(w, h.deps.Logger, status, resp)
}
