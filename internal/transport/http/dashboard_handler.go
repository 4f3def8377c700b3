// Package http holds the chi handlers of the dashboard API.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ncdash/internal/errors"
	"ncdash/internal/exporter"
)

// DashboardHandler exposes the dashboard operations over HTTP.
type DashboardHandler struct {
	service      DashboardService
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		errorHandler: apierrors.NewErrorHandler(logger),
		logger:       logger.With(slog.String("handler", "dashboard")),
	}
}

// Routes returns the dashboard route tree.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/filters", h.GetFilterOptions)
	r.Post("/summary", h.PostSummary)
	r.Post("/export", h.PostExport)
	r.Post("/refresh", h.PostRefresh)
	return r
}

// GetFilterOptions returns the observed filter values of the current
// record set.
func (h *DashboardHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, options)
}

// PostSummary computes KPIs and breakdowns for the requested view.
func (h *DashboardHandler) PostSummary(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.decodeCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Summary(r.Context(), criteria.ToCriteria())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// PostExport renders the requested view as a PowerPoint download.
func (h *DashboardHandler) PostExport(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.decodeCriteria(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	deck, err := h.service.Export(r.Context(), criteria.ToCriteria())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporter.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(deck)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(deck); err != nil {
		h.logger.WarnContext(r.Context(), "export download aborted", slog.String("error", err.Error()))
	}
}

// PostRefresh forces a reload from the source, bypassing the cache TTL.
func (h *DashboardHandler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *DashboardHandler) decodeCriteria(r *http.Request) (*CriteriaRequest, error) {
	var req CriteriaRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}
