package handler

import (
	"errors"
	"net/http"

	"github.com/waretrack/inventory-service/internal/auth"
	"github.com/waretrack/inventory-service/internal/location"
	"github.com/waretrack/inventory-service/internal/location/dto"
	"github.com/waretrack/inventory-service/internal/pkg/httputil"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

type LocationHandler struct {
	uc     location.UseCase
	logger logger.ZapLogger
}

func NewLocationHandler(uc location.UseCase, log logger.ZapLogger) *LocationHandler {
	return &LocationHandler{uc: uc, logger: log}
}

func (h *LocationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/locations", h.Create)
	mux.HandleFunc("GET /api/locations", h.List)
	mux.HandleFunc("GET /api/locations/{id}", h.Get)
	mux.HandleFunc("POST /api/locations/{id}/deactivate", h.Deactivate)
}

type createLocationRequest struct {
	Code string `json:"code"`
	Kind string `json:"kind"`
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := auth.FromContext(r.Context())
	loc, err := h.uc.CreateLocation(r.Context(), &dto.CreateLocationInput{
		Warehouse: user.Warehouse,
		Code:      req.Code,
		Kind:      req.Kind,
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, loc)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	loc, err := h.uc.GetLocation(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loc)
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.FromContext(r.Context())
	q := r.URL.Query()

	var active *bool
	if raw := q.Get("active"); raw != "" {
		b := raw == "true"
		active = &b
	}

	items, total, err := h.uc.ListLocations(r.Context(), &dto.LocationFilters{
		Warehouse: user.Warehouse,
		Kind:      q.Get("kind"),
		Active:    active,
		Page:      httputil.QueryInt(r, "page", 1),
		PageSize:  httputil.QueryInt(r, "page_size", 50),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *LocationHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeactivateLocation(r.Context(), r.PathValue("id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LocationHandler) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, location.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, location.ErrCodeTaken):
		status = http.StatusConflict
	case errors.Is(err, location.ErrInvalidKind), errors.Is(err, location.ErrHoldingStock):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("location request failed", zap.Error(err))
	}
	httputil.WriteError(w, status, err.Error())
}
