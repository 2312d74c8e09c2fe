package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"dconn.dev/showcase/internal/render"
	"dconn.dev/showcase/internal/services"
)

// PageHandler serves the HTML card grid
type PageHandler struct {
	deps Deps
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(d Deps) *PageHandler {
	return &PageHandler{deps: d}
}

// viewFromRequest rebuilds UI state from ?tag= and ?menu=
func (h *PageHandler) viewFromRequest(r *http.Request) *services.ViewModel {
	vm := newViewModel(h.deps, h.deps.ProjectService.Snapshot())

	q := r.URL.Query()
	vm.SelectTag(q.Get("tag"))
	if services.ParseDropdownState(q.Get("menu")) == services.DropdownOpen {
		vm.OpenMenu()
	}
	return vm
}

// Page handles GET /
func (h *PageHandler) Page(w http.ResponseWriter, r *http.Request) {
	vm := h.viewFromRequest(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := h.deps.Renderer.Page(w, render.PageData{
		Title:      h.deps.Config.Site.Title,
		Stylesheet: h.deps.Config.Site.Stylesheet,
		Grid:       vm.Render(),
	})
	if err != nil {
		h.deps.Logger.Error("Error rendering page", zap.Error(err))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
	}
}

// Grid handles GET /grid - only the projects container
func (h *PageHandler) Grid(w http.ResponseWriter, r *http.Request) {
	vm := h.viewFromRequest(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.deps.Renderer.Grid(w, vm.Render()); err != nil {
		h.deps.Logger.Error("Error rendering grid", zap.Error(err))
		http.Error(w, "Error rendering grid", http.StatusInternalServerError)
	}
}

func newViewModel(d Deps, result services.LoadResult) *services.ViewModel {
	return services.NewViewModel(result, services.ViewOptions{
		ShowAllLabel:   d.Config.Tags.ShowAllLabel,
		PreferredOrder: d.Config.Tags.PreferredOrder,
		Descriptions:   d.Markdown,
	})
}
